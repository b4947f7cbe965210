package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers - paginated user list; password hashes never serialize
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePaginationParams(r)

	users, total, err := h.userService.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"total":      total,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	Email    string                  `json:"email"`
	Password string                  `json:"password"`
	Name     string                  `json:"name"`
	Role     models.UserRole         `json:"role"`
	Tier     models.SubscriptionTier `json:"tier"`
}

// CreateUser - admin provisioning with explicit role and tier
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email, req.Password, req.Name, req.Role, req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Name string                  `json:"name"`
	Role models.UserRole         `json:"role"`
	Tier models.SubscriptionTier `json:"tier"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req.Name, req.Role, req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser - removing the last admin is refused with a 400
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
