package handlers

import (
	"encoding/json"
	"net/http"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WriterHandler struct {
	writerService services.WriterService
}

func NewWriterHandler(writerService services.WriterService) *WriterHandler {
	return &WriterHandler{writerService: writerService}
}

type writerSessionRequest struct {
	Title   string                     `json:"title"`
	Content string                     `json:"content"`
	Status  models.WriterSessionStatus `json:"status,omitempty"`
}

func (h *WriterHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := ParsePaginationParams(r)

	sessions, err := h.writerService.ListSessions(r.Context(), user.ID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *WriterHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	session, err := h.writerService.GetSession(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *WriterHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req writerSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	session, err := h.writerService.CreateSession(r.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *WriterHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	var req writerSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	session, err := h.writerService.UpdateSession(r.Context(), user.ID, id, req.Title, req.Content, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *WriterHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.writerService.DeleteSession(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
