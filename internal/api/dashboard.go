package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-bff/internal/dashboard"
	"storefront-bff/internal/models"
)

func parseSelection(r *http.Request) (dashboard.Selection, bool) {
	q := r.URL.Query()

	sel := dashboard.Selection{
		ReportDt:    q.Get("reportDt"),
		HorizonDays: 30,
		Page:        1,
		PerPage:     10,
	}
	if sel.ReportDt == "" {
		return sel, false
	}
	if _, err := time.Parse("2006-01-02", sel.ReportDt); err != nil {
		return sel, false
	}
	if v := q.Get("horizonDays"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return sel, false
		}
		sel.HorizonDays = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return sel, false
		}
		sel.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return sel, false
		}
		sel.PerPage = n
	}
	return sel, true
}

func respondBadSelection(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, map[string]string{
		"detail": "reportDt (YYYY-MM-DD) is required; horizonDays, page and per_page must be positive",
	})
}

// GetDashboardSummary fans the four reports out and returns the composite.
// All four must succeed; a single failure fails the whole read.
func (h *Handler) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		respondBadSelection(w)
		return
	}

	summary, err := h.view.Refresh(r.Context(), h.agg, sel)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Typed passthroughs for the individual reports, for panels that refresh on
// their own.

func (h *Handler) GetOverallChurn(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		respondBadSelection(w)
		return
	}
	report, err := h.upstream.OverallChurn(r.Context(), sel.ReportDt, sel.HorizonDays)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) GetRFMSegments(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		respondBadSelection(w)
		return
	}
	report, err := h.upstream.RFMSegments(r.Context(), sel.ReportDt, sel.HorizonDays)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) GetRiskDistribution(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		respondBadSelection(w)
		return
	}
	report, err := h.upstream.RiskDistribution(r.Context(), sel.ReportDt, sel.HorizonDays)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) GetHighRiskUsers(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		respondBadSelection(w)
		return
	}
	report, err := h.upstream.HighRiskUsers(r.Context(), sel.ReportDt, sel.HorizonDays, sel.Page, sel.PerPage)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// PolicyAction handles both approve and reject; the action comes from the
// route, not the body, so a mismatched body cannot flip a decision.
func (h *Handler) PolicyAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PolicyActionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Action = action

		result, err := h.actions.Submit(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
