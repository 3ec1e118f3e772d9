package checkout

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront-bff/internal/models"
)

// CommerceAPI is the slice of the upstream client the flow needs.
type CommerceAPI interface {
	Cart(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error)
	PlaceOrder(ctx context.Context, cookies []*http.Cookie, req models.OrderCreateRequest) (*models.OrderSuccess, error)
}

// FeePolicy resolves a shipping method to its fee.
type FeePolicy func(method string) float64

// Flow drives the checkout state machine. Every transition is persisted, so a
// reload resumes at the step the draft has earned rather than losing the order.
type Flow struct {
	api   CommerceAPI
	store Store
	fee   FeePolicy
}

func NewFlow(api CommerceAPI, store Store, fee FeePolicy) *Flow {
	return &Flow{api: api, store: store, fee: fee}
}

// Information carries everything collected on the information step.
type Information struct {
	RecipientName  string                 `json:"recipient_name"`
	Email          string                 `json:"email"`
	Phone          string                 `json:"phone"`
	Address        models.ShippingAddress `json:"address"`
	ShippingMethod string                 `json:"shipping_method"`
	PaymentMethod  string                 `json:"payment_method"`
	CouponCode     string                 `json:"coupon_code"`
}

func (i *Information) validate() error {
	switch {
	case i.RecipientName == "":
		return &ValidationError{Field: "recipient_name"}
	case i.Email == "":
		return &ValidationError{Field: "email"}
	case i.Phone == "":
		return &ValidationError{Field: "phone"}
	case i.Address.ZipCode == "":
		return &ValidationError{Field: "address.zip_code"}
	case i.Address.AddressMain == "":
		return &ValidationError{Field: "address.address_main"}
	}
	return nil
}

// Begin snapshots the session's cart into a fresh draft. An empty cart cannot
// enter checkout.
func (f *Flow) Begin(ctx context.Context, cookies []*http.Cookie) (*Draft, error) {
	cart, err := f.api.Cart(ctx, cookies)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	draft := &Draft{
		ID:          uuid.NewString(),
		Items:       cart.Items,
		ShippingFee: f.fee("standard"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.store.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (f *Flow) Get(ctx context.Context, id string) (*Draft, error) {
	return f.store.Get(ctx, id)
}

// SetInformation records the contact, address and shipping choice on the
// draft. Validation happens before anything is written; the shipping fee is
// resolved from the gateway's fee policy, never trusted from the client.
func (f *Flow) SetInformation(ctx context.Context, id string, info Information) (*Draft, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}

	draft, err := f.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.OrderID != 0 {
		return nil, ErrAlreadySubmitted
	}

	method := info.ShippingMethod
	if method == "" {
		method = "standard"
	}

	draft.RecipientName = info.RecipientName
	draft.Contact = Contact{Email: info.Email, Phone: info.Phone}
	addr := info.Address
	draft.Address = &addr
	draft.ShippingMethod = method
	draft.ShippingFee = f.fee(method)
	draft.PaymentMethod = info.PaymentMethod
	draft.CouponCode = info.CouponCode
	draft.UpdatedAt = time.Now().UTC()

	if err := f.store.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit places the order upstream exactly once. A draft missing its
// information fields cannot reach this point; a draft that already produced an
// order refuses to produce another. On upstream failure the draft is left
// untouched so the session stays on the payment step.
func (f *Flow) Submit(ctx context.Context, cookies []*http.Cookie, id string) (*models.OrderSuccess, *Draft, error) {
	draft, err := f.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if draft.OrderID != 0 {
		return nil, draft, ErrAlreadySubmitted
	}
	if !draft.HasInformation() {
		return nil, draft, ErrIncompleteDraft
	}

	req := models.OrderCreateRequest{
		RecipientName:   draft.RecipientName,
		ShippingAddress: *draft.Address,
		PhoneNumber:     draft.Contact.Phone,
		PaymentMethod:   draft.PaymentMethod,
		UsedCouponCode:  draft.CouponCode,
		ShippingMethod:  draft.ShippingMethod,
		ShippingFee:     draft.ShippingFee,
	}

	result, err := f.api.PlaceOrder(ctx, cookies, req)
	if err != nil {
		return nil, draft, err
	}

	draft.OrderID = result.OrderID
	draft.UpdatedAt = time.Now().UTC()
	if err := f.store.Put(ctx, draft); err != nil {
		// The order exists upstream; losing the draft only loses the
		// confirmation view, not the order itself.
		return result, draft, nil
	}
	return result, draft, nil
}
