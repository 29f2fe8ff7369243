package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"tonotes/model"
	"tonotes/usecase"
)

type CreateNoteRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (r CreateNoteRequest) Input() usecase.CreateNoteInput {
	return usecase.CreateNoteInput{
		User:  r.User,
		Title: r.Title,
		Text:  r.Text,
	}
}

// UpdateNoteRequest keeps completed raw so that a non-boolean value is
// reported as a missing field rather than a malformed body.
type UpdateNoteRequest struct {
	ID        string          `json:"id"`
	User      string          `json:"user"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Completed json.RawMessage `json:"completed"`
}

func (r UpdateNoteRequest) Input() usecase.UpdateNoteInput {
	return usecase.UpdateNoteInput{
		ID:        r.ID,
		User:      r.User,
		Title:     r.Title,
		Text:      r.Text,
		Completed: strictBool(r.Completed),
	}
}

func strictBool(raw json.RawMessage) *bool {
	var b bool
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil
	}
	return &b
}

type DeleteNoteRequest struct {
	ID string `json:"id"`
}

type NoteResponse struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Username  string    `json:"username"`
}

// Convert a joined note to NoteResponse
func ToNoteResponse(note model.NoteWithUser) NoteResponse {
	return NoteResponse{
		ID:        note.ID.Hex(),
		User:      note.User.Hex(),
		Title:     note.Title,
		Text:      note.Text,
		Completed: note.Completed,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Username:  note.Username,
	}
}

func ToNoteResponses(notes []model.NoteWithUser) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
