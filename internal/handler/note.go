package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SmitChaudhari26/VoxDesk/internal/auth"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/service"
)

// NoteHandler manages the per-user notes endpoints. Every route here sits
// behind RequireAuth, so the owner always comes from the request context.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// HandleCreate saves a note for the authenticated user.
//
// HTTP: POST /api/notes
// Body: {"note": "dictated text"}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	note, err := h.notes.Create(r.Context(), user.ID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string      `json:"message"`
		Note    *model.Note `json:"note"`
	}{
		Message: "Note saved!",
		Note:    note,
	})
}

// HandleList returns the authenticated user's notes, newest first.
//
// HTTP: GET /api/notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	notes, err := h.notes.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleDelete removes one of the authenticated user's notes.
//
// HTTP: DELETE /api/notes/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	if err := h.notes.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully!"})
}
