package models

import "time"

// Field names mirror the upstream commerce API wire format exactly: snake_case
// on the storefront endpoints, camelCase on the dashboard endpoints.

type User struct {
	UserID      int       `json:"user_id"`
	Email       string    `json:"email"`
	UserName    string    `json:"user_name"`
	Gender      string    `json:"gender,omitempty"`
	Birthdate   string    `json:"birthdate"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	UserName           string `json:"user_name"`
	Gender             string `json:"gender,omitempty"`
	Birthdate          string `json:"birthdate"`
	PhoneNumber        string `json:"phone_number,omitempty"`
	InterestCategories []int  `json:"interest_categories"`
}

type CartItem struct {
	CartItemID  int       `json:"cart_item_id"`
	VariantID   int       `json:"variant_id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Color       string    `json:"color,omitempty"`
	Size        string    `json:"size,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	TotalPrice  float64   `json:"total_price"`
	AddedAt     time.Time `json:"added_at"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

type CartItemAdd struct {
	VariantID int `json:"variant_id"`
	Quantity  int `json:"quantity"`
}

type ProductVariant struct {
	VariantID     int    `json:"variant_id"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	StockQuantity int    `json:"stock_quantity"`
}

type ProductSummary struct {
	ProductID         int       `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Description       string    `json:"description,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	Price             float64   `json:"price"`
	CategoryName      string    `json:"category_name"`
	CreatedAt         time.Time `json:"created_at"`
	AvailableVariants int       `json:"available_variants"`
}

type ProductDetail struct {
	ProductID    int              `json:"product_id"`
	ProductName  string           `json:"product_name"`
	Description  string           `json:"description,omitempty"`
	ImageURL     string           `json:"image_url,omitempty"`
	Price        float64          `json:"price"`
	CategoryName string           `json:"category_name"`
	CreatedAt    time.Time        `json:"created_at"`
	Variants     []ProductVariant `json:"variants"`
}

type ShippingAddress struct {
	ZipCode       string `json:"zip_code"`
	AddressMain   string `json:"address_main"`
	AddressDetail string `json:"address_detail"`
}

type OrderCreateRequest struct {
	RecipientName   string          `json:"recipient_name"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PhoneNumber     string          `json:"phone_number"`
	ShippingMemo    string          `json:"shopping_memo"`
	PaymentMethod   string          `json:"payment_method"`
	UsedCouponCode  string          `json:"used_coupon_code"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingFee     float64         `json:"shipping_fee"`
}

type DirectOrderRequest struct {
	VariantID int `json:"variant_id"`
	Quantity  int `json:"quantity"`
	OrderCreateRequest
}

type OrderItem struct {
	ProductName string  `json:"product_name"`
	Color       string  `json:"color,omitempty"`
	Size        string  `json:"size,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type Order struct {
	OrderID         int         `json:"order_id"`
	UserID          int         `json:"user_id"`
	OrderDate       time.Time   `json:"order_date"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingFee     float64     `json:"shipping_fee"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shopping_address"`
	Items           []OrderItem `json:"items"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
}

type OrderSuccess struct {
	OrderID int    `json:"order_id"`
	Message string `json:"message"`
}

type Coupon struct {
	CouponID       int       `json:"coupon_id"`
	PolicyName     string    `json:"policy_name"`
	CouponCode     string    `json:"coupon_code"`
	DiscountAmount float64   `json:"discount_amount"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// TrackEvent is the analytics beacon payload. Everything beyond the event name
// is carried through to the log sink untouched.
type TrackEvent struct {
	EventName string         `json:"event_name"`
	PageURL   string         `json:"page_url,omitempty"`
	Referrer  string         `json:"referrer,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
}

// Dashboard report shapes (camelCase per the upstream analytics API).

type ChurnOverall struct {
	ReportDt       string  `json:"reportDt"`
	HorizonDays    int     `json:"horizonDays"`
	CustomersTotal int     `json:"customersTotal"`
	ChurnRate      float64 `json:"churnRate"`
	RetentionRate  float64 `json:"retentionRate"`
	ChurnCustomers int     `json:"churnCustomers"`
}

type RFMSegment struct {
	Bucket      string  `json:"bucket"`
	Customers   int     `json:"customers"`
	ChurnRate   float64 `json:"churnRate"`
	AtRiskUsers int     `json:"atRiskUsers"`
}

type RFMReport struct {
	ReportDt    string       `json:"reportDt"`
	HorizonDays int          `json:"horizonDays"`
	Segments    []RFMSegment `json:"segments"`
}

type RiskBand struct {
	RiskBand  string  `json:"riskBand"`
	UserCount int     `json:"userCount"`
	Ratio     float64 `json:"ratio"`
}

type AtRiskSummary struct {
	UserCount int     `json:"userCount"`
	Ratio     float64 `json:"ratio"`
}

type RiskDistribution struct {
	ReportDt    string        `json:"reportDt"`
	HorizonDays int           `json:"horizonDays"`
	Bands       []RiskBand    `json:"bands"`
	AtRisk      AtRiskSummary `json:"atRisk"`
}

type RecommendedAction struct {
	PolicyID   int    `json:"policyId"`
	PolicyName string `json:"policy_name"`
}

type HighRiskUser struct {
	UserID           int               `json:"userId"`
	RiskBand         string            `json:"riskBand"`
	ChurnProbability float64           `json:"churnProbability"`
	Action           RecommendedAction `json:"action"`
}

type HighRiskPage struct {
	ReportDt    string         `json:"reportDt"`
	HorizonDays int            `json:"horizonDays"`
	Total       int            `json:"total"`
	Items       []HighRiskUser `json:"items"`
}

type PolicyActionRequest struct {
	UserID   int    `json:"userId"`
	PolicyID int    `json:"policyId"`
	Action   string `json:"action"`
	Reason   string `json:"reason,omitempty"`
}

type PolicyActionResult struct {
	UserID     int    `json:"userId"`
	PolicyID   int    `json:"policyId"`
	PolicyName string `json:"policyName"`
	Status     string `json:"status"`
}

// DashboardSummary is the fan-in composite served to the admin view.
type DashboardSummary struct {
	ReportDt     string            `json:"reportDt"`
	HorizonDays  int               `json:"horizonDays"`
	Overall      *ChurnOverall     `json:"overall"`
	RFM          *RFMReport        `json:"rfm"`
	Distribution *RiskDistribution `json:"distribution"`
	HighRisk     *HighRiskPage     `json:"highRisk"`
}
