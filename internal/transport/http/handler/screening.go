package handler

import (
	"errors"
	"net/http"

	"github.com/donor-intake-api/internal/application/review"
	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ScreeningHandler exposes the review-flag workflow.
type ScreeningHandler struct {
	svc review.Service
}

func NewScreeningHandler(svc review.Service) *ScreeningHandler {
	return &ScreeningHandler{svc: svc}
}

func (h *ScreeningHandler) FlagForReview(w http.ResponseWriter, r *http.Request) {
	at, err := h.svc.FlagForReview(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		msg := err.Error()
		if errors.Is(err, domain.ErrNotFound) {
			msg = "screening form not found"
		}
		writeJSON(w, statusFor(err), ReviewEnvelope{Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, ReviewEnvelope{Success: true, UpdatedAt: formatTime(at)})
}
