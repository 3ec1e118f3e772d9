package checkout

import (
	"errors"
	"fmt"
	"time"

	"storefront-bff/internal/models"
)

// Step identifies a position in the linear checkout flow. Steps are strictly
// ordered: cart -> information -> payment -> confirmed. A draft can only be at
// the furthest step its accumulated fields allow.
type Step string

const (
	StepCart        Step = "cart"
	StepInformation Step = "information"
	StepPayment     Step = "payment"
	StepConfirmed   Step = "confirmed"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrDraftNotFound    = errors.New("checkout draft not found")
	ErrIncompleteDraft  = errors.New("checkout draft is missing required fields")
	ErrAlreadySubmitted = errors.New("order already submitted for this draft")
)

// ValidationError reports a missing or invalid information field. It blocks
// the step transition before any upstream call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Draft is the order being assembled across checkout steps. It lives in a
// session-scoped store keyed by its id and survives page reloads until its
// TTL runs out. Totals are never stored; they are derived on every read.
type Draft struct {
	ID             string                  `json:"id"`
	Items          []models.CartItem       `json:"items"`
	RecipientName  string                  `json:"recipient_name,omitempty"`
	Contact        Contact                 `json:"contact"`
	Address        *models.ShippingAddress `json:"address,omitempty"`
	ShippingMethod string                  `json:"shipping_method,omitempty"`
	ShippingFee    float64                 `json:"shipping_fee"`
	PaymentMethod  string                  `json:"payment_method,omitempty"`
	CouponCode     string                  `json:"coupon_code,omitempty"`
	OrderID        int                     `json:"order_id,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// Subtotal is the sum of price multiplied by quantity over all lines.
func (d *Draft) Subtotal() float64 {
	var sum float64
	for _, item := range d.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// Total is subtotal plus the shipping fee, computed fresh on every call.
func (d *Draft) Total() float64 {
	return d.Subtotal() + d.ShippingFee
}

// HasInformation reports whether the contact and shipping fields required to
// enter the payment step are all present.
func (d *Draft) HasInformation() bool {
	return d.RecipientName != "" &&
		d.Contact.Email != "" &&
		d.Contact.Phone != "" &&
		d.Address != nil &&
		d.Address.ZipCode != "" &&
		d.Address.AddressMain != ""
}

// StepOf returns the furthest step the draft may occupy. Handlers redirect to
// the cart step whenever a request names a step beyond this one.
func StepOf(d *Draft) Step {
	switch {
	case d == nil || len(d.Items) == 0:
		return StepCart
	case d.OrderID != 0:
		return StepConfirmed
	case d.HasInformation():
		return StepPayment
	default:
		return StepInformation
	}
}
