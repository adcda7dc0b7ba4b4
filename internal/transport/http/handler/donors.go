package handler

import (
	"net/http"

	"github.com/donor-intake-api/internal/application/deferral"
	"github.com/donor-intake-api/internal/application/eligibility"
	"github.com/donor-intake-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// DonorHandler serves the public donor read signals.
type DonorHandler struct {
	eligibility eligibility.Service
	deferral    deferral.Service
}

func NewDonorHandler(e eligibility.Service, d deferral.Service) *DonorHandler {
	return &DonorHandler{eligibility: e, deferral: d}
}

// Eligibility always answers with an eligibility envelope; the status code
// tells a rejected id apart from a failed lookup.
func (h *DonorHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	status, err := h.eligibility.Evaluate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *DonorHandler) Deferral(w http.ResponseWriter, r *http.Request) {
	donorID, err := domain.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, DeferralEnvelope{
			DeferralStatus: domain.DeferralStatus{CheckedBy: domain.CheckedByRemarks},
			Error:          err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, DeferralEnvelope{DeferralStatus: h.deferral.IsDeferred(r.Context(), donorID)})
}

// IntakeStatus runs both signals concurrently and reports them unmerged. A
// failed eligibility read still returns its deny envelope next to the
// deferral signal, under the failure's status code.
func (h *DonorHandler) IntakeStatus(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	donorID, err := domain.ParseDonorID(raw)
	if err != nil {
		writeJSON(w, statusFor(err), IntakeStatusEnvelope{
			Eligibility: domain.EligibilityStatus{StatusMessage: "Invalid donor ID"},
			Deferral:    domain.DeferralStatus{CheckedBy: domain.CheckedByRemarks},
		})
		return
	}

	out := IntakeStatusEnvelope{DonorID: donorID}
	// Not errgroup.WithContext: an eligibility failure must not cancel the deferral read.
	var g errgroup.Group
	g.Go(func() error {
		status, err := h.eligibility.Evaluate(r.Context(), raw)
		out.Eligibility = status
		return err
	})
	g.Go(func() error {
		out.Deferral = h.deferral.IsDeferred(r.Context(), donorID)
		return nil
	})
	writeJSON(w, statusFor(g.Wait()), out)
}
