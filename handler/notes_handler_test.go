package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tonotes/dto"
	"tonotes/middleware"
	"tonotes/model"
	"tonotes/repository"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	notes  *repository.MemoryNotesRepo
	users  *repository.MemoryUserRepo
}

func setupNotesRouter(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		notes: repository.NewMemoryNotesRepo(),
		users: repository.NewMemoryUserRepo(),
	}
	env.router = newNotesRouter(usecase.NewNotesService(env.notes, env.users))
	return env
}

func newNotesRouter(svc *usecase.NotesService) *gin.Engine {
	h := NewNotesHandler(svc)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware())
	router.GET("/notes", h.ListNotes)
	router.POST("/notes", h.CreateNote)
	router.PATCH("/notes", h.UpdateNote)
	router.DELETE("/notes", h.DeleteNote)
	return router
}

func (env *testEnv) do(t *testing.T, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response.Message
}

func listNotes(t *testing.T, env *testEnv) []dto.NoteResponse {
	t.Helper()
	w := env.do(t, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var notes []dto.NoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	return notes
}

func TestCreateNoteHandler(t *testing.T) {
	env := setupNotesRouter(t)
	owner := env.users.AddUser("u1")

	body := fmt.Sprintf(`{"user":%q,"title":"Groceries","text":"milk"}`, owner.ID.Hex())
	w := env.do(t, http.MethodPost, body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "New note Groceries created", messageOf(t, w))

	notes := listNotes(t, env)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, "milk", notes[0].Text)
	assert.Equal(t, "u1", notes[0].Username)
	assert.Equal(t, owner.ID.Hex(), notes[0].User)
	assert.False(t, notes[0].Completed)

	w = env.do(t, http.MethodPost, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Duplicate note", messageOf(t, w))

	upper := fmt.Sprintf(`{"user":%q,"title":"GROCERIES","text":"MILK"}`, owner.ID.Hex())
	w = env.do(t, http.MethodPost, upper)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateNoteHandlerValidation(t *testing.T) {
	env := setupNotesRouter(t)
	owner := env.users.AddUser("u1").ID.Hex()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "empty body", body: "", wantCode: http.StatusBadRequest, wantMsg: "User field is required"},
		{name: "empty object", body: `{}`, wantCode: http.StatusBadRequest, wantMsg: "User field is required"},
		{name: "missing title", body: fmt.Sprintf(`{"user":%q,"text":"milk"}`, owner), wantCode: http.StatusBadRequest, wantMsg: "Title field is required"},
		{name: "missing text", body: fmt.Sprintf(`{"user":%q,"title":"Groceries"}`, owner), wantCode: http.StatusBadRequest, wantMsg: "Text field is required"},
		{name: "bad user id", body: `{"user":"u1","title":"Groceries","text":"milk"}`, wantCode: http.StatusBadRequest, wantMsg: "Invalid user ID"},
		{name: "malformed json", body: `{"user":`, wantCode: http.StatusBadRequest, wantMsg: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, w))
		})
	}
}

func TestListNotesHandlerEmpty(t *testing.T) {
	env := setupNotesRouter(t)

	w := env.do(t, http.MethodGet, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No notes found", messageOf(t, w))
}

func TestListNotesHandlerOrphanNote(t *testing.T) {
	env := setupNotesRouter(t)
	_, err := env.notes.Insert(context.Background(), &model.Note{User: primitive.NewObjectID(), Title: "a", Text: "b"})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.IsError)
	assert.Contains(t, response.Message, "note owner not found")
}

func createNote(t *testing.T, env *testEnv, user, title, text string) *model.Note {
	t.Helper()
	svc := usecase.NewNotesService(env.notes, env.users)
	note, err := svc.CreateNote(context.Background(), usecase.CreateNoteInput{User: user, Title: title, Text: text})
	require.NoError(t, err)
	return note
}

func TestUpdateNoteHandler(t *testing.T) {
	env := setupNotesRouter(t)
	owner := env.users.AddUser("u1").ID.Hex()
	note := createNote(t, env, owner, "Groceries", "milk")
	other := createNote(t, env, owner, "Chores", "dishes")

	body := func(id, title, text, completed string) string {
		return fmt.Sprintf(`{"id":%q,"user":%q,"title":%q,"text":%q,"completed":%s}`, id, owner, title, text, completed)
	}

	t.Run("self match", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, body(note.ID.Hex(), "Groceries", "milk", "true"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Groceries updated", messageOf(t, w))
	})

	t.Run("rename", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, body(note.ID.Hex(), "Shopping", "milk, eggs", "false"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Shopping updated", messageOf(t, w))
	})

	t.Run("conflict with another note", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, body(other.ID.Hex(), "shopping", "MILK, EGGS", "true"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Duplicate note", messageOf(t, w))
	})

	t.Run("completed not boolean", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, body(note.ID.Hex(), "Shopping", "milk", `"true"`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "All fields are required", messageOf(t, w))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, fmt.Sprintf(`{"id":%q,"completed":true}`, note.ID.Hex()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "All fields are required", messageOf(t, w))
	})

	t.Run("unknown note", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, body(primitive.NewObjectID().Hex(), "x", "y", "true"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User not found", messageOf(t, w))
	})

	notes := listNotes(t, env)
	require.Len(t, notes, 2)
	assert.Equal(t, "Shopping", notes[0].Title)
	assert.Equal(t, "milk, eggs", notes[0].Text)
	assert.False(t, notes[0].Completed)
	assert.Equal(t, "Chores", notes[1].Title)
}

func TestDeleteNoteHandler(t *testing.T) {
	env := setupNotesRouter(t)
	owner := env.users.AddUser("u1").ID.Hex()
	note := createNote(t, env, owner, "Groceries", "milk")
	keep := createNote(t, env, owner, "Chores", "dishes")

	w := env.do(t, http.MethodDelete, fmt.Sprintf(`{"id":%q}`, note.ID.Hex()))
	assert.Equal(t, http.StatusOK, w.Code)

	var reply string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, fmt.Sprintf("Note Groceries with ID %s deleted", note.ID.Hex()), reply)

	notes := listNotes(t, env)
	require.Len(t, notes, 1)
	assert.Equal(t, keep.ID.Hex(), notes[0].ID)

	w = env.do(t, http.MethodDelete, fmt.Sprintf(`{"id":%q}`, note.ID.Hex()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User not found", messageOf(t, w))

	w = env.do(t, http.MethodDelete, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Note ID Required", messageOf(t, w))

	w = env.do(t, http.MethodDelete, `{"id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid note ID", messageOf(t, w))
}

func TestCreateNoteHandlerBodyTooLarge(t *testing.T) {
	env := setupNotesRouter(t)
	owner := env.users.AddUser("u1").ID.Hex()

	router := gin.New()
	router.Use(middleware.RequestSizeLimiter(32))
	router.POST("/notes", NewNotesHandler(usecase.NewNotesService(env.notes, env.users)).CreateNote)

	body := fmt.Sprintf(`{"user":%q,"title":%q,"text":"milk"}`, owner, strings.Repeat("x", 200))
	// no Content-Length, so only the body reader can enforce the limit
	req := httptest.NewRequest(http.MethodPost, "/notes", io.MultiReader(strings.NewReader(body)))
	require.Equal(t, int64(-1), req.ContentLength)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body too large", messageOf(t, w))

	notes, err := env.notes.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

type failingNotes struct {
	usecase.NotesRepository
}

func (failingNotes) FindAll(context.Context) ([]*model.Note, error) {
	return nil, errors.New("server selection timeout")
}

func TestListNotesHandlerStoreFailure(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(failingNotes{}, repository.NewMemoryUserRepo()))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server selection timeout")
}

type brokenStore struct{ err error }

func (b brokenStore) Ping(context.Context) error { return b.err }

func TestHealthHandler(t *testing.T) {
	router := gin.New()
	router.GET("/health", NewHealthHandler(brokenStore{}).Health)
	router.GET("/health-down", NewHealthHandler(brokenStore{err: errors.New("down")}).Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health-down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
