package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tonotes/logger"
	"tonotes/model"
	"tonotes/repository"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoNotesFound      = errors.New("no notes found")
	ErrNoteNotFound      = errors.New("note not found")
	ErrDuplicateNote     = errors.New("duplicate note")
	ErrInvalidNoteData   = errors.New("invalid note data")
	ErrNoteOwnerNotFound = errors.New("note owner not found")
)

// ValidationError is returned for bad input. Message is safe to show to the
// client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

type NotesRepository interface {
	FindAll(ctx context.Context) ([]*model.Note, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error)
	// FindDuplicate returns nil, nil when no note matches.
	FindDuplicate(ctx context.Context, user primitive.ObjectID, title, text string) (*model.Note, error)
	Insert(ctx context.Context, note *model.Note) (*model.Note, error)
	Save(ctx context.Context, note *model.Note) (*model.Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UsersRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type NotesService struct {
	NotesRepo NotesRepository
	UsersRepo UsersRepository
}

func NewNotesService(notesRepo NotesRepository, usersRepo UsersRepository) *NotesService {
	return &NotesService{
		NotesRepo: notesRepo,
		UsersRepo: usersRepo,
	}
}

type CreateNoteInput struct {
	User  string
	Title string
	Text  string
}

type UpdateNoteInput struct {
	ID    string
	User  string
	Title string
	Text  string
	// nil when the request carried no boolean
	Completed *bool
}

// ListNotes returns every note with its owner's username. Owners are looked
// up concurrently, one lookup per note; the first failed lookup fails the call.
func (svc *NotesService) ListNotes(ctx context.Context) ([]model.NoteWithUser, error) {
	notes, err := svc.NotesRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, ErrNoNotesFound
	}

	result := make([]model.NoteWithUser, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	for i, note := range notes {
		g.Go(func() error {
			user, err := svc.UsersRepo.FindByID(gctx, note.User)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: note %s, user %s", ErrNoteOwnerNotFound, note.ID.Hex(), note.User.Hex())
				}
				return fmt.Errorf("find owner of note %s: %w", note.ID.Hex(), err)
			}
			result[i] = model.NoteWithUser{Note: *note, Username: user.Username}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("list")
	return result, nil
}

func (svc *NotesService) CreateNote(ctx context.Context, in CreateNoteInput) (*model.Note, error) {
	switch {
	case in.User == "":
		return nil, invalid("User field is required")
	case in.Title == "":
		return nil, invalid("Title field is required")
	case in.Text == "":
		return nil, invalid("Text field is required")
	}

	userID, err := primitive.ObjectIDFromHex(in.User)
	if err != nil {
		return nil, invalid("Invalid user ID")
	}

	duplicate, err := svc.NotesRepo.FindDuplicate(ctx, userID, in.Title, in.Text)
	if err != nil {
		return nil, fmt.Errorf("check duplicate note: %w", err)
	}
	if duplicate != nil {
		return nil, ErrDuplicateNote
	}

	note, err := svc.NotesRepo.Insert(ctx, &model.Note{
		User:  userID,
		Title: in.Title,
		Text:  in.Text,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateNote
		}
		return nil, fmt.Errorf("create note: %w", err)
	}
	if note == nil {
		return nil, ErrInvalidNoteData
	}

	utils.TrackNoteOperation("create")
	logger.Info(ctx, "note created", logger.NoteID(note.ID), logger.UserID(note.User))
	return note, nil
}

// UpdateNote replaces user, title, text and completed of an existing note.
// A duplicate that is the note itself is not a conflict.
func (svc *NotesService) UpdateNote(ctx context.Context, in UpdateNoteInput) (*model.Note, error) {
	if in.ID == "" || in.User == "" || in.Title == "" || in.Text == "" || in.Completed == nil {
		return nil, invalid("All fields are required")
	}

	noteID, err := primitive.ObjectIDFromHex(in.ID)
	if err != nil {
		return nil, invalid("Invalid note ID")
	}
	userID, err := primitive.ObjectIDFromHex(in.User)
	if err != nil {
		return nil, invalid("Invalid user ID")
	}

	note, err := svc.NotesRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("load note: %w", err)
	}

	duplicate, err := svc.NotesRepo.FindDuplicate(ctx, userID, in.Title, in.Text)
	if err != nil {
		return nil, fmt.Errorf("check duplicate note: %w", err)
	}
	if duplicate != nil && duplicate.ID != note.ID {
		return nil, ErrDuplicateNote
	}

	note.User = userID
	note.Title = in.Title
	note.Text = in.Text
	note.Completed = *in.Completed

	updated, err := svc.NotesRepo.Save(ctx, note)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateNote
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("save note: %w", err)
	}

	utils.TrackNoteOperation("update")
	logger.Info(ctx, "note updated", logger.NoteID(updated.ID), slog.Bool("completed", updated.Completed))
	return updated, nil
}

// DeleteNote removes a note and returns it as it was before deletion.
func (svc *NotesService) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, invalid("Note ID Required")
	}

	noteID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, invalid("Invalid note ID")
	}

	note, err := svc.NotesRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("load note: %w", err)
	}

	if err := svc.NotesRepo.Delete(ctx, note.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("delete note: %w", err)
	}

	utils.TrackNoteOperation("delete")
	logger.Info(ctx, "note deleted", logger.NoteID(note.ID))
	return note, nil
}
