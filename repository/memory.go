package repository

import (
	"context"
	"sync"
	"time"

	"tonotes/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryNotesRepo keeps notes in process memory. It is used by tests and by
// the memory storage driver.
type MemoryNotesRepo struct {
	mu    sync.RWMutex
	notes map[primitive.ObjectID]model.Note
	order []primitive.ObjectID

	// Unique makes Insert and Save reject duplicates the way a unique
	// collated index would.
	Unique bool
}

func NewMemoryNotesRepo() *MemoryNotesRepo {
	return &MemoryNotesRepo{
		notes: make(map[primitive.ObjectID]model.Note),
	}
}

func (r *MemoryNotesRepo) FindAll(_ context.Context) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*model.Note, 0, len(r.order))
	for _, id := range r.order {
		note := r.notes[id]
		notes = append(notes, &note)
	}
	return notes, nil
}

func (r *MemoryNotesRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &note, nil
}

func (r *MemoryNotesRepo) FindDuplicate(_ context.Context, user primitive.ObjectID, title, text string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if note, ok := r.findDuplicate(user, title, text, primitive.NilObjectID); ok {
		return &note, nil
	}
	return nil, nil
}

func (r *MemoryNotesRepo) Insert(_ context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Unique {
		if _, ok := r.findDuplicate(note.User, note.Title, note.Text, primitive.NilObjectID); ok {
			return nil, ErrDuplicate
		}
	}

	now := time.Now().UTC()
	doc := *note
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, exists := r.notes[doc.ID]; exists {
		return nil, ErrDuplicate
	}
	doc.Completed = false
	doc.CreatedAt = now
	doc.UpdatedAt = now

	r.notes[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	return &doc, nil
}

func (r *MemoryNotesRepo) Save(_ context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.notes[note.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Unique {
		if _, ok := r.findDuplicate(note.User, note.Title, note.Text, note.ID); ok {
			return nil, ErrDuplicate
		}
	}

	current.User = note.User
	current.Title = note.Title
	current.Text = note.Text
	current.Completed = note.Completed
	current.UpdatedAt = time.Now().UTC()

	r.notes[current.ID] = current
	return &current, nil
}

func (r *MemoryNotesRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryNotesRepo) Ping(_ context.Context) error {
	return nil
}

// findDuplicate must be called with r.mu held.
func (r *MemoryNotesRepo) findDuplicate(user primitive.ObjectID, title, text string, skip primitive.ObjectID) (model.Note, bool) {
	for _, id := range r.order {
		if id == skip {
			continue
		}
		note := r.notes[id]
		if note.User == user && SameText(note.Title, title) && SameText(note.Text, text) {
			return note, true
		}
	}
	return model.Note{}, false
}

// MemoryUserRepo is the read side of an in-memory users collection.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users: make(map[primitive.ObjectID]model.User),
	}
}

// AddUser creates a user with a new id.
func (r *MemoryUserRepo) AddUser(username string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := model.User{ID: primitive.NewObjectID(), Username: username}
	r.users[user.ID] = user
	return &user
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}
