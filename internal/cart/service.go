package cart

import (
	"context"
	"errors"
	"net/http"

	"storefront-bff/internal/models"
	"storefront-bff/internal/upstream"
)

// ErrQuantityTooLow rejects a quantity below one before anything goes over the
// wire. The storefront clamps decrements at one; the gateway enforces it too.
var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// API is the slice of the upstream client the cart service uses.
type API interface {
	Cart(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error)
	AddCartItem(ctx context.Context, cookies []*http.Cookie, item models.CartItemAdd) error
	UpdateCartItemQuantity(ctx context.Context, cookies []*http.Cookie, itemID, quantity int) error
	RemoveCartItem(ctx context.Context, cookies []*http.Cookie, itemID int) error
}

// Service proxies cart operations to the upstream. The upstream owns the cart;
// every mutation is a round-trip and nothing is kept locally.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// List returns the session's cart. An unauthenticated session gets an empty
// cart, not an error.
func (s *Service) List(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error) {
	cart, err := s.api.Cart(ctx, cookies)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthenticated) {
			return &models.Cart{Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func (s *Service) Add(ctx context.Context, cookies []*http.Cookie, item models.CartItemAdd) error {
	if item.Quantity < 1 {
		return ErrQuantityTooLow
	}
	return s.api.AddCartItem(ctx, cookies, item)
}

// ChangeQuantity sets a line's quantity. Quantities below one never reach the
// upstream; any upstream failure leaves the cart as it was.
func (s *Service) ChangeQuantity(ctx context.Context, cookies []*http.Cookie, itemID, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	return s.api.UpdateCartItemQuantity(ctx, cookies, itemID, quantity)
}

func (s *Service) Remove(ctx context.Context, cookies []*http.Cookie, itemID int) error {
	return s.api.RemoveCartItem(ctx, cookies, itemID)
}
