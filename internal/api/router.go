package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/telemetry"
)

// NewRouter wires every route the gateway exposes. Each route goes through the
// metrics middleware with its own pattern; dashboard routes additionally go
// through the operator JWT check.
func NewRouter(h *Handler, authMW *auth.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	route := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(pattern, handler))
	}
	admin := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(pattern, authMW.RequireOperator(handler)))
	}

	route("POST /log/track", h.PostTrack)

	route("GET /api/users/me", h.GetMe)
	route("POST /api/users/login", h.Login)
	route("POST /api/users/register", h.Register)
	route("POST /api/users/logout", h.Logout)
	route("GET /api/users/my-coupons", h.MyCoupons)

	route("GET /api/products", h.GetProducts)
	route("GET /api/products/{id}", h.GetProduct)

	route("GET /api/cart/", h.GetCart)
	route("POST /api/cart/items", h.AddCartItem)
	route("PUT /api/cart/items/{id}", h.UpdateCartItem)
	route("DELETE /api/cart/items/{id}", h.RemoveCartItem)

	route("GET /api/orders/", h.ListOrders)
	route("POST /api/orders/", h.PlaceOrder)
	route("POST /api/orders/direct", h.PlaceDirectOrder)

	route("POST /api/checkout", h.StartCheckout)
	route("GET /api/checkout", h.GetCheckout)
	route("PUT /api/checkout/information", h.PutInformation)
	route("POST /api/checkout/pay", h.Pay)

	admin("GET /api/dashboard/summary", h.GetDashboardSummary)
	admin("GET /api/dashboard/churn-rate/overall", h.GetOverallChurn)
	admin("GET /api/dashboard/churn-rate/rfm-segments", h.GetRFMSegments)
	admin("GET /api/dashboard/churn-risk/distribution", h.GetRiskDistribution)
	admin("GET /api/dashboard/high-risk-users", h.GetHighRiskUsers)
	admin("POST /api/dashboard/policy-action/approve", h.PolicyAction("approve"))
	admin("POST /api/dashboard/policy-action/reject", h.PolicyAction("reject"))

	return mux
}
