package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"storefront-bff/internal/models"
)

// Canned stand-in for the commerce API, for running the gateway locally
// without the real backend.

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func main() {
	mux := http.NewServeMux()
	now := time.Now().UTC()

	cart := models.Cart{
		Items: []models.CartItem{
			{CartItemID: 1, VariantID: 11, ProductID: 1, ProductName: "Basic Heavy T-Shirt", Color: "Black", Size: "L", Price: 10000, Quantity: 2, TotalPrice: 20000, AddedAt: now},
			{CartItemID: 2, VariantID: 21, ProductID: 2, ProductName: "Basic Fit T-Shirt", Color: "White", Size: "M", Price: 20000, Quantity: 1, TotalPrice: 20000, AddedAt: now},
		},
		TotalPrice: 40000,
	}

	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.User{UserID: 1, Email: "user@example.com", UserName: "Kim Minjun", Birthdate: "1990-01-01", CreatedAt: now})
	})

	mux.HandleFunc("GET /api/cart/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cart)
	})
	mux.HandleFunc("POST /api/cart/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]string{"message": "item added"})
	})
	mux.HandleFunc("PUT /api/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "quantity updated"})
	})
	mux.HandleFunc("DELETE /api/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "item removed"})
	})

	mux.HandleFunc("POST /api/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, models.OrderSuccess{OrderID: 1001, Message: "order created"})
	})

	mux.HandleFunc("GET /api/dashboard/churn-rate/overall", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.ChurnOverall{
			ReportDt: r.URL.Query().Get("reportDt"), HorizonDays: 30,
			CustomersTotal: 120345, ChurnRate: 0.1325, RetentionRate: 0.8675, ChurnCustomers: 15966,
		})
	})
	mux.HandleFunc("GET /api/dashboard/churn-rate/rfm-segments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.RFMReport{
			ReportDt: r.URL.Query().Get("reportDt"), HorizonDays: 30,
			Segments: []models.RFMSegment{
				{Bucket: "High(10-12)", Customers: 12000, ChurnRate: 0.1825, AtRiskUsers: 2190},
				{Bucket: "Mid(7-9)", Customers: 34000, ChurnRate: 0.1120, AtRiskUsers: 3808},
				{Bucket: "Low(3-6)", Customers: 56000, ChurnRate: 0.0835, AtRiskUsers: 4676},
			},
		})
	})
	mux.HandleFunc("GET /api/dashboard/churn-risk/distribution", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.RiskDistribution{
			ReportDt: r.URL.Query().Get("reportDt"), HorizonDays: 30,
			Bands: []models.RiskBand{
				{RiskBand: "VH", UserCount: 8200, Ratio: 0.0681},
				{RiskBand: "H", UserCount: 10250, Ratio: 0.0851},
				{RiskBand: "M", UserCount: 30500, Ratio: 0.2534},
				{RiskBand: "L", UserCount: 71395, Ratio: 0.5933},
			},
			AtRisk: models.AtRiskSummary{UserCount: 18450, Ratio: 0.1532},
		})
	})
	mux.HandleFunc("GET /api/dashboard/high-risk-users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.HighRiskPage{
			ReportDt: r.URL.Query().Get("reportDt"), HorizonDays: 30, Total: 18450,
			Items: []models.HighRiskUser{
				{UserID: 100023, RiskBand: "VH", ChurnProbability: 0.9123, Action: models.RecommendedAction{PolicyID: 3, PolicyName: "50% coupon"}},
			},
		})
	})
	mux.HandleFunc("POST /api/dashboard/policy-action/{action}", func(w http.ResponseWriter, r *http.Request) {
		var req models.PolicyActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, models.PolicyActionResult{
			UserID: req.UserID, PolicyID: req.PolicyID, PolicyName: "50% coupon", Status: r.PathValue("action") + "d",
		})
	})

	mux.HandleFunc("POST /log/track", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log.Println("commerce stub listening on :8000")
	if err := http.ListenAndServe(":8000", mux); err != nil {
		log.Fatal(err)
	}
}
