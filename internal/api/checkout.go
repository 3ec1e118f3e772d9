package api

import (
	"net/http"

	"storefront-bff/internal/checkout"
	"storefront-bff/internal/models"
)

const checkoutCookie = "checkout_sid"

// draftView is the draft as the storefront sees it: the stored fields plus
// totals derived at response time. Totals are never persisted.
type draftView struct {
	Step           checkout.Step           `json:"step"`
	Items          []models.CartItem       `json:"items"`
	RecipientName  string                  `json:"recipient_name,omitempty"`
	Contact        checkout.Contact        `json:"contact"`
	Address        *models.ShippingAddress `json:"address,omitempty"`
	ShippingMethod string                  `json:"shipping_method,omitempty"`
	ShippingFee    float64                 `json:"shipping_fee"`
	Subtotal       float64                 `json:"subtotal"`
	Total          float64                 `json:"total"`
	OrderID        int                     `json:"order_id,omitempty"`
}

func newDraftView(d *checkout.Draft) draftView {
	return draftView{
		Step:           checkout.StepOf(d),
		Items:          d.Items,
		RecipientName:  d.RecipientName,
		Contact:        d.Contact,
		Address:        d.Address,
		ShippingMethod: d.ShippingMethod,
		ShippingFee:    d.ShippingFee,
		Subtotal:       d.Subtotal(),
		Total:          d.Total(),
		OrderID:        d.OrderID,
	}
}

func (h *Handler) draftID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ck, err := r.Cookie(checkoutCookie)
	if err != nil || ck.Value == "" {
		respondCartRedirect(w, "no checkout in progress")
		return "", false
	}
	return ck.Value, true
}

// StartCheckout snapshots the cart into a new draft and hands the session its
// checkout id.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	draft, err := h.flow.Begin(r.Context(), r.Cookies())
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     checkoutCookie,
		Value:    draft.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusCreated, newDraftView(draft))
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}
	draft, err := h.flow.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newDraftView(draft))
}

// PutInformation records contact, address and shipping choice. Missing fields
// are rejected before anything is stored.
func (h *Handler) PutInformation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}

	var info checkout.Information
	if !decodeBody(w, r, &info) {
		return
	}

	draft, err := h.flow.SetInformation(r.Context(), id, info)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newDraftView(draft))
}

// Pay submits the draft upstream. It only ever succeeds once per draft, and an
// incomplete draft is redirected to the cart step instead of being submitted.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}

	result, draft, err := h.flow.Submit(r.Context(), r.Cookies(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"order_id": result.OrderID,
		"draft":    newDraftView(draft),
	})
}
