package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront-bff/internal/cart"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/dashboard"
	"storefront-bff/internal/upstream"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondCartRedirect tells the storefront to send the user back to the cart
// step: the checkout draft is absent, expired or missing required fields.
func respondCartRedirect(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusConflict, map[string]string{
		"redirect": "cart",
		"message":  message,
	})
}

// respondError maps service errors onto HTTP statuses. Validation failures
// never made it upstream; upstream statuses pass through; transport failures
// surface as 502.
func respondError(w http.ResponseWriter, err error) {
	var (
		statusErr     *upstream.StatusError
		validationErr *checkout.ValidationError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, cart.ErrQuantityTooLow),
		errors.Is(err, dashboard.ErrReasonRequired),
		errors.Is(err, dashboard.ErrUnknownAction):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
	case errors.Is(err, upstream.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "login required"})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrDraftNotFound),
		errors.Is(err, checkout.ErrIncompleteDraft):
		respondCartRedirect(w, err.Error())
	case errors.Is(err, checkout.ErrAlreadySubmitted),
		errors.Is(err, dashboard.ErrActionPending):
		respondJSON(w, http.StatusConflict, map[string]string{"detail": err.Error()})
	case errors.As(err, &statusErr):
		respondJSON(w, statusErr.Status, map[string]string{"detail": statusErr.Message})
	default:
		slog.Error("upstream call failed", "error", err)
		respondJSON(w, http.StatusBadGateway, map[string]string{"detail": "upstream unavailable"})
	}
}

// decodeBody rejects unparseable request bodies before anything else runs.
func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return false
	}
	return true
}
