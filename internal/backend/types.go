package backend

import "encoding/json"

// Address is a delivery address owned by the backend's address book.
type Address struct {
	AddressID    int64  `json:"address_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

// AddressInput is the payload for creating or updating an address.
type AddressInput struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state,omitempty"`
	Pincode      string `json:"pincode" validate:"required"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

// Slot is a backend-defined delivery time window.
type Slot struct {
	SlotID      int64  `json:"slot_id"`
	SlotDetails string `json:"slot_details"`
}

// Profile is the full user identity record.
type Profile struct {
	UserID          int64  `json:"user_id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// OrderItem is one line of an order-creation payload. Price rides as a
// raw JSON number produced from exact decimal arithmetic.
type OrderItem struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

// OrderPayload is the order-creation request body.
type OrderPayload struct {
	AddressID     int64       `json:"address_id"`
	SlotID        int64       `json:"slot_id"`
	SlotDate      string      `json:"slot_date"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
	TotalPrice    json.Number `json:"total_price"`
}

// OrderConfirmation is the order-creation success response.
type OrderConfirmation struct {
	OrderID json.Number `json:"order_id"`
}

// PaymentOrder is the provider order handle minted for prepaid flows.
type PaymentOrder struct {
	OrderID  string      `json:"order_id"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// OrderSummary is one entry of a user's order history.
type OrderSummary struct {
	OrderID    json.Number        `json:"order_id"`
	TotalPrice string             `json:"total_price"`
	Status     string             `json:"status"`
	OrderDate  string             `json:"order_date"`
	Items      []OrderHistoryItem `json:"items"`
}

// OrderHistoryItem is one line of a past order.
type OrderHistoryItem struct {
	ProductID json.Number `json:"product_id"`
	Name      string      `json:"name"`
	ImageURL  string      `json:"image_url"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

// OTPRequest targets either a phone number or an email address.
type OTPRequest struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// OTPVerification carries the six-digit code back for verification.
type OTPVerification struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	OTP   string `json:"otp"`
}

// TokenGrant is the backend's verify-otp success response.
type TokenGrant struct {
	Token string `json:"token"`
}
