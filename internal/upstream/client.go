package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-bff/internal/models"
)

// ErrUnauthenticated marks an upstream 401 on session-check endpoints. Callers
// treat it as "logged out", not as a failure.
var ErrUnauthenticated = errors.New("not authenticated")

// StatusError carries a non-2xx upstream response with its decoded message.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// Client is the typed client for the commerce API. One method per endpoint;
// every call forwards the browser's session cookies so the upstream sees the
// same identity the storefront does. Failures are terminal: there is no retry.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, cookies []*http.Cookie, body, target any) ([]*http.Cookie, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Cookies(), &StatusError{
			Status:  resp.StatusCode,
			Message: decodeMessage(resp),
		}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp.Cookies(), fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Cookies(), nil
}

// decodeMessage pulls the human-readable message out of an upstream error
// body. The commerce API uses "detail", older endpoints use "message".
func decodeMessage(resp *http.Response) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

func isStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// CurrentUser returns the session's user, or ErrUnauthenticated on 401.
func (c *Client) CurrentUser(ctx context.Context, cookies []*http.Cookie) (*models.User, error) {
	var user models.User
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/users/me", nil, cookies, nil, &user); err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the user plus the session cookies the
// upstream issued, so the gateway can relay them to the browser.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.User, []*http.Cookie, error) {
	var body struct {
		User models.User `json:"user"`
	}
	cookies, err := c.doJSON(ctx, http.MethodPost, "/api/users/login", nil, nil, req, &body)
	if err != nil {
		return nil, nil, err
	}
	return &body.User, cookies, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/users/register", nil, nil, req, nil)
	return err
}

func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	return c.doJSON(ctx, http.MethodPost, "/api/users/logout", nil, cookies, nil, nil)
}

func (c *Client) Cart(ctx context.Context, cookies []*http.Cookie) (*models.Cart, error) {
	var cart models.Cart
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/cart/", nil, cookies, nil, &cart); err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, cookies []*http.Cookie, item models.CartItemAdd) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/cart/items", nil, cookies, item, nil)
	return err
}

func (c *Client) UpdateCartItemQuantity(ctx context.Context, cookies []*http.Cookie, itemID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	path := fmt.Sprintf("/api/cart/items/%d", itemID)
	_, err := c.doJSON(ctx, http.MethodPut, path, nil, cookies, body, nil)
	return err
}

func (c *Client) RemoveCartItem(ctx context.Context, cookies []*http.Cookie, itemID int) error {
	path := fmt.Sprintf("/api/cart/items/%d", itemID)
	_, err := c.doJSON(ctx, http.MethodDelete, path, nil, cookies, nil, nil)
	return err
}

func (c *Client) Products(ctx context.Context) ([]models.ProductSummary, error) {
	var products []models.ProductSummary
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductByID(ctx context.Context, productID int) (*models.ProductDetail, error) {
	var product models.ProductDetail
	path := fmt.Sprintf("/api/products/%d", productID)
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) PlaceOrder(ctx context.Context, cookies []*http.Cookie, req models.OrderCreateRequest) (*models.OrderSuccess, error) {
	var result models.OrderSuccess
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/orders/", nil, cookies, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PlaceDirectOrder(ctx context.Context, cookies []*http.Cookie, req models.DirectOrderRequest) (*models.OrderSuccess, error) {
	var result models.OrderSuccess
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/orders/direct", nil, cookies, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Orders(ctx context.Context, cookies []*http.Cookie) (*models.OrderList, error) {
	var list models.OrderList
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/orders/", nil, cookies, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) MyCoupons(ctx context.Context, cookies []*http.Cookie) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/users/my-coupons", nil, cookies, nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func reportQuery(reportDt string, horizonDays int) url.Values {
	q := url.Values{}
	q.Set("reportDt", reportDt)
	q.Set("horizonDays", strconv.Itoa(horizonDays))
	return q
}

func (c *Client) OverallChurn(ctx context.Context, reportDt string, horizonDays int) (*models.ChurnOverall, error) {
	var report models.ChurnOverall
	q := reportQuery(reportDt, horizonDays)
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/churn-rate/overall", q, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) RFMSegments(ctx context.Context, reportDt string, horizonDays int) (*models.RFMReport, error) {
	var report models.RFMReport
	q := reportQuery(reportDt, horizonDays)
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/churn-rate/rfm-segments", q, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) RiskDistribution(ctx context.Context, reportDt string, horizonDays int) (*models.RiskDistribution, error) {
	var report models.RiskDistribution
	q := reportQuery(reportDt, horizonDays)
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/churn-risk/distribution", q, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) HighRiskUsers(ctx context.Context, reportDt string, horizonDays, page, perPage int) (*models.HighRiskPage, error) {
	var report models.HighRiskPage
	q := reportQuery(reportDt, horizonDays)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/high-risk-users", q, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SubmitPolicyAction posts an approve or reject record. The path segment is
// derived from the action field, matching the upstream route pair.
func (c *Client) SubmitPolicyAction(ctx context.Context, req models.PolicyActionRequest) (*models.PolicyActionResult, error) {
	var result models.PolicyActionResult
	path := "/api/dashboard/policy-action/" + req.Action
	if _, err := c.doJSON(ctx, http.MethodPost, path, nil, nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
