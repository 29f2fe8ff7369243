package repository

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collators keep per-instance buffers, so each comparison borrows its own.
var looseCollators = sync.Pool{
	New: func() any {
		return collate.New(language.English, collate.Loose)
	},
}

// SameText reports whether a and b are equal under NoteCollation: letter
// case, diacritics and width are ignored, spacing and punctuation are not.
func SameText(a, b string) bool {
	c := looseCollators.Get().(*collate.Collator)
	defer looseCollators.Put(c)
	return c.CompareString(a, b) == 0
}
