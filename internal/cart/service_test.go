package cart

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bff/internal/models"
	"storefront-bff/internal/upstream"
)

type stubAPI struct {
	cart    *models.Cart
	cartErr error

	updateCalls  int
	updatedID    int
	updatedQty   int
	removeCalls  int
	removedID    int
	addCalls     int
	mutationErr  error
}

func (s *stubAPI) Cart(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error) {
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	return s.cart, nil
}

func (s *stubAPI) AddCartItem(ctx context.Context, cookies []*http.Cookie, item models.CartItemAdd) error {
	s.addCalls++
	return s.mutationErr
}

func (s *stubAPI) UpdateCartItemQuantity(ctx context.Context, cookies []*http.Cookie, itemID, quantity int) error {
	s.updateCalls++
	s.updatedID = itemID
	s.updatedQty = quantity
	return s.mutationErr
}

func (s *stubAPI) RemoveCartItem(ctx context.Context, cookies []*http.Cookie, itemID int) error {
	s.removeCalls++
	s.removedID = itemID
	return s.mutationErr
}

func TestListUnauthenticatedIsEmptyNotError(t *testing.T) {
	api := &stubAPI{cartErr: upstream.ErrUnauthenticated}
	svc := NewService(api)

	cart, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestChangeQuantityRejectsBelowOneLocally(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api)

	for _, qty := range []int{0, -1, -100} {
		err := svc.ChangeQuantity(context.Background(), nil, 1, qty)
		assert.ErrorIs(t, err, ErrQuantityTooLow)
	}
	assert.Zero(t, api.updateCalls, "invalid quantities must never reach the upstream")
}

func TestChangeQuantityProxiesValidValues(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api)

	require.NoError(t, svc.ChangeQuantity(context.Background(), nil, 7, 3))
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, 7, api.updatedID)
	assert.Equal(t, 3, api.updatedQty)
}

func TestChangeQuantityPropagatesUpstreamFailure(t *testing.T) {
	api := &stubAPI{mutationErr: errors.New("boom")}
	svc := NewService(api)

	err := svc.ChangeQuantity(context.Background(), nil, 7, 2)
	assert.Error(t, err)
}

func TestRemoveTargetsExactlyOneLine(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api)

	require.NoError(t, svc.Remove(context.Background(), nil, 42))
	assert.Equal(t, 1, api.removeCalls)
	assert.Equal(t, 42, api.removedID)
}

func TestAddValidatesQuantity(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api)

	err := svc.Add(context.Background(), nil, models.CartItemAdd{VariantID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrQuantityTooLow)
	assert.Zero(t, api.addCalls)

	require.NoError(t, svc.Add(context.Background(), nil, models.CartItemAdd{VariantID: 1, Quantity: 1}))
	assert.Equal(t, 1, api.addCalls)
}
