package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bff/internal/models"
)

type stubCommerce struct {
	cart       *models.Cart
	cartErr    error
	orderErr   error
	placedReqs []models.OrderCreateRequest
}

func (s *stubCommerce) Cart(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error) {
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	return s.cart, nil
}

func (s *stubCommerce) PlaceOrder(ctx context.Context, cookies []*http.Cookie, req models.OrderCreateRequest) (*models.OrderSuccess, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	s.placedReqs = append(s.placedReqs, req)
	return &models.OrderSuccess{OrderID: 1001, Message: "order created"}, nil
}

func testFee(method string) float64 {
	if method == "express" {
		return 8000
	}
	return 3000
}

func newTestFlow(api *stubCommerce) *Flow {
	return NewFlow(api, NewMemoryStore(time.Minute), testFee)
}

func fullInformation() Information {
	return Information{
		RecipientName: "Kim Minjun",
		Email:         "kim@example.com",
		Phone:         "010-1234-5678",
		Address: models.ShippingAddress{
			ZipCode:       "06134",
			AddressMain:   "Teheran-ro 123",
			AddressDetail: "45F",
		},
		ShippingMethod: "standard",
		PaymentMethod:  "credit_card",
	}
}

func TestBeginSnapshotsCart(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{
		{CartItemID: 1, Price: 10000, Quantity: 2},
	}}}
	flow := newTestFlow(api)

	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Len(t, draft.Items, 1)
	assert.Equal(t, 3000.0, draft.ShippingFee, "standard fee by default")
	assert.Equal(t, StepInformation, StepOf(draft))
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{}}
	flow := newTestFlow(api)

	_, err := flow.Begin(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSetInformationValidatesBeforeStoring(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{{CartItemID: 1, Price: 10000, Quantity: 1}}}}
	flow := newTestFlow(api)
	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)

	info := fullInformation()
	info.Email = ""
	_, err = flow.SetInformation(context.Background(), draft.ID, info)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	stored, err := flow.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Contact.Email, "invalid submission must not be stored")
}

func TestSetInformationResolvesFeeFromPolicy(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{{CartItemID: 1, Price: 10000, Quantity: 1}}}}
	flow := newTestFlow(api)
	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)

	info := fullInformation()
	info.ShippingMethod = "express"
	updated, err := flow.SetInformation(context.Background(), draft.ID, info)
	require.NoError(t, err)

	assert.Equal(t, 8000.0, updated.ShippingFee)
	assert.Equal(t, StepPayment, StepOf(updated))
}

func TestSubmitRefusesIncompleteDraft(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{{CartItemID: 1, Price: 10000, Quantity: 1}}}}
	flow := newTestFlow(api)
	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)

	_, _, err = flow.Submit(context.Background(), nil, draft.ID)
	assert.ErrorIs(t, err, ErrIncompleteDraft)
	assert.Empty(t, api.placedReqs, "no order may be placed without contact and address")
}

func TestSubmitPlacesOrderExactlyOnce(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{{CartItemID: 1, Price: 10000, Quantity: 2}}}}
	flow := newTestFlow(api)
	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)
	_, err = flow.SetInformation(context.Background(), draft.ID, fullInformation())
	require.NoError(t, err)

	result, confirmed, err := flow.Submit(context.Background(), nil, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 1001, result.OrderID)
	assert.Equal(t, StepConfirmed, StepOf(confirmed))
	require.Len(t, api.placedReqs, 1)
	assert.Equal(t, 3000.0, api.placedReqs[0].ShippingFee)

	_, _, err = flow.Submit(context.Background(), nil, draft.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, api.placedReqs, 1, "a draft never produces a second order")
}

func TestSubmitFailureLeavesDraftOnPayment(t *testing.T) {
	api := &stubCommerce{cart: &models.Cart{Items: []models.CartItem{{CartItemID: 1, Price: 10000, Quantity: 1}}}}
	flow := newTestFlow(api)
	draft, err := flow.Begin(context.Background(), nil)
	require.NoError(t, err)
	_, err = flow.SetInformation(context.Background(), draft.ID, fullInformation())
	require.NoError(t, err)

	api.orderErr = errors.New("payment declined")
	_, _, err = flow.Submit(context.Background(), nil, draft.ID)
	require.Error(t, err)

	stored, err := flow.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.OrderID)
	assert.Equal(t, StepPayment, StepOf(stored), "failed payment stays on the payment step")
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	draft := &Draft{ID: "d1", Items: []models.CartItem{{CartItemID: 1, Quantity: 1}}}
	require.NoError(t, store.Put(context.Background(), draft))

	time.Sleep(20 * time.Millisecond)
	_, err := store.Get(context.Background(), "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
