package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"storefront-bff/internal/analytics"
	"storefront-bff/internal/cache"
	"storefront-bff/internal/cart"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/config"
	"storefront-bff/internal/dashboard"
	"storefront-bff/internal/models"
	"storefront-bff/internal/upstream"
)

const loginRateLimit = 10 // requests per minute per IP

// Handler glues the storefront HTTP surface to the services behind it.
type Handler struct {
	cfg      *config.Config
	upstream *upstream.Client
	cart     *cart.Service
	flow     *checkout.Flow
	agg      *dashboard.Aggregator
	view     *dashboard.View
	actions  *dashboard.Actions
	tracker  *analytics.Tracker
	cache    *cache.Client // optional; nil disables rate limiting and product caching
}

func NewHandler(
	cfg *config.Config,
	up *upstream.Client,
	cartSvc *cart.Service,
	flow *checkout.Flow,
	agg *dashboard.Aggregator,
	view *dashboard.View,
	actions *dashboard.Actions,
	tracker *analytics.Tracker,
	cacheClient *cache.Client,
) *Handler {
	return &Handler{
		cfg:      cfg,
		upstream: up,
		cart:     cartSvc,
		flow:     flow,
		agg:      agg,
		view:     view,
		actions:  actions,
		tracker:  tracker,
		cache:    cacheClient,
	}
}

func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, ck := range cookies {
		http.SetCookie(w, ck)
	}
}

// --- users ---

// GetMe reports the session's user. An upstream 401 means "logged out" and is
// answered with a null user, not an error.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.upstream.CurrentUser(r.Context(), r.Cookies())
	if err != nil {
		if err == upstream.ErrUnauthenticated {
			respondJSON(w, http.StatusOK, map[string]*models.User{"user": nil})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil && h.cache.IsRateLimited(r.Context(), clientIP(r), loginRateLimit) {
		slog.Warn("login rate limit exceeded", "ip", clientIP(r))
		respondJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "too many requests"})
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, cookies, err := h.upstream.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	relayCookies(w, cookies)
	respondJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.upstream.Register(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "registered")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookies, err := h.upstream.Logout(r.Context(), r.Cookies())
	if err != nil {
		respondError(w, err)
		return
	}
	relayCookies(w, cookies)
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) MyCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.upstream.MyCoupons(r.Context(), r.Cookies())
	if err != nil {
		respondError(w, err)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	respondJSON(w, http.StatusOK, coupons)
}

// --- products ---

const productListKey = "products:list"

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		if data, err := h.cache.Get(ctx, productListKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)
			return
		}
	}

	products, err := h.upstream.Products(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			go func() {
				_ = h.cache.Set(context.Background(), productListKey, data, h.cfg.ReportCacheTTL)
			}()
		}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid product id"})
		return
	}
	product, err := h.upstream.ProductByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.cart.List(r.Context(), r.Cookies())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var item models.CartItemAdd
	if !decodeBody(w, r, &item) {
		return
	}
	if err := h.cart.Add(r.Context(), r.Cookies(), item); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "item added")
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid cart item id"})
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.cart.ChangeQuantity(r.Context(), r.Cookies(), id, body.Quantity); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "quantity updated")
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid cart item id"})
		return
	}
	if err := h.cart.Remove(r.Context(), r.Cookies(), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "item removed")
}

// --- orders ---

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.upstream.Orders(r.Context(), r.Cookies())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// The gateway's fee policy wins over whatever the client sent.
	req.ShippingFee = h.cfg.ShippingFee(req.ShippingMethod)

	result, err := h.upstream.PlaceOrder(r.Context(), r.Cookies(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// PlaceDirectOrder is the buy-now path: one variant, no cart involved.
func (h *Handler) PlaceDirectOrder(w http.ResponseWriter, r *http.Request) {
	var req models.DirectOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		respondError(w, cart.ErrQuantityTooLow)
		return
	}
	req.ShippingFee = h.cfg.ShippingFee(req.ShippingMethod)

	result, err := h.upstream.PlaceDirectOrder(r.Context(), r.Cookies(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// --- analytics ---

// PostTrack accepts a navigation beacon, answers immediately and forwards it
// to the log sink in the background. Delivery is best-effort.
func (h *Handler) PostTrack(w http.ResponseWriter, r *http.Request) {
	var event models.TrackEvent
	// A malformed beacon is dropped silently; beacons never fail the page.
	_ = json.NewDecoder(r.Body).Decode(&event)

	anonID, sessionID := analytics.EnsureIdentity(w, r)
	if event.EventName != "" && h.tracker != nil {
		h.tracker.Forward(event, anonID, sessionID)
	}
	w.WriteHeader(http.StatusNoContent)
}
