package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"tonotes/dto"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	notesService *usecase.NotesService
}

func NewNotesHandler(notesService *usecase.NotesService) *NotesHandler {
	return &NotesHandler{notesService: notesService}
}

// ListNotes handles GET /notes.
func (h *NotesHandler) ListNotes(c *gin.Context) {
	notes, err := h.notesService.ListNotes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

// CreateNote handles POST /notes.
func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if !bindBody(c, &req) {
		return
	}

	if _, err := h.notesService.CreateNote(c.Request.Context(), req.Input()); err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, fmt.Sprintf("New note %s created", req.Title))
}

// UpdateNote handles PATCH /notes.
func (h *NotesHandler) UpdateNote(c *gin.Context) {
	var req dto.UpdateNoteRequest
	if !bindBody(c, &req) {
		return
	}

	updated, err := h.notesService.UpdateNote(c.Request.Context(), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.OK(c, fmt.Sprintf("%s updated", updated.Title))
}

// DeleteNote handles DELETE /notes. The reply is a bare JSON string.
func (h *NotesHandler) DeleteNote(c *gin.Context) {
	var req dto.DeleteNoteRequest
	if !bindBody(c, &req) {
		return
	}

	deleted, err := h.notesService.DeleteNote(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, fmt.Sprintf("Note %s with ID %s deleted", deleted.Title, deleted.ID.Hex()))
}

// bindBody decodes a JSON body. An empty body decodes to the zero request so
// that field validation reports what is missing.
func bindBody(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.PayloadTooLarge(c, "Request body too large")
		return false
	}
	utils.BadRequest(c, "Invalid request body")
	return false
}

func respondError(c *gin.Context, err error) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.BadRequest(c, verr.Message)
	case errors.Is(err, usecase.ErrNoNotesFound):
		utils.BadRequest(c, "No notes found")
	case errors.Is(err, usecase.ErrNoteNotFound):
		// clients match on this text
		utils.BadRequest(c, "User not found")
	case errors.Is(err, usecase.ErrDuplicateNote):
		utils.Conflict(c, "Duplicate note")
	case errors.Is(err, usecase.ErrInvalidNoteData):
		utils.BadRequest(c, "Invalid note data received")
	default:
		_ = c.Error(err)
	}
}
