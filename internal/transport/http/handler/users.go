package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donor-intake-api/internal/application/user"
	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/transport/http/middleware"
)

// UserHandler provisions staff accounts.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSafeUser(u))
}
