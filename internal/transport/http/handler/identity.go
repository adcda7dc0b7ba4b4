package handler

import (
	"net/http"

	"github.com/donor-intake-api/internal/application/identity"
	"github.com/donor-intake-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// IdentityHandler issues and resolves session-scoped donor tokens.
type IdentityHandler struct {
	svc identity.Service
}

func NewIdentityHandler(svc identity.Service) *IdentityHandler {
	return &IdentityHandler{svc: svc}
}

func (h *IdentityHandler) Hash(w http.ResponseWriter, r *http.Request) {
	tok, err := h.svc.Tokenize(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), TokenEnvelope{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Success: true, Hash: tok})
}

func (h *IdentityHandler) Issue(w http.ResponseWriter, r *http.Request) {
	tok, exp, err := h.svc.IssueToken(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), TokenEnvelope{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Success: true, Hash: tok, ExpiresAt: &exp})
}

func (h *IdentityHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	donorID, err := h.svc.Resolve(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, statusFor(err), ResolveEnvelope{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ResolveEnvelope{Success: true, DonorID: &donorID})
}
