package apiclient

import "time"

type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Expiry   string `json:"expiry"`
	Status   string `json:"status"`
	Unit     string `json:"unit"`
	MinStock int    `json:"min_stock"`
}

// ProductPatch updates only the non-nil fields.
type ProductPatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Stock    *int    `json:"stock,omitempty"`
	Expiry   *string `json:"expiry,omitempty"`
	Status   *string `json:"status,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	MinStock *int    `json:"min_stock,omitempty"`
}

type Batch struct {
	ID          string `json:"id"`
	Product     string `json:"product"`
	IntakeDate  string `json:"intake_date"`
	Expiry      string `json:"expiry"`
	Status      string `json:"status"`
	Responsible string `json:"responsible"`
	Orders      string `json:"orders"`
	Supplies    string `json:"supplies"`
	ExpiryState string `json:"expiry_state,omitempty"`
}

type BatchRequest struct {
	Product     string `json:"product"`
	IntakeDate  string `json:"intake_date,omitempty"`
	Expiry      string `json:"expiry"`
	Status      string `json:"status,omitempty"`
	Responsible string `json:"responsible,omitempty"`
	Orders      string `json:"orders,omitempty"`
	Supplies    string `json:"supplies,omitempty"`
}

type MovementType string

const (
	StockIn  MovementType = "in"
	StockOut MovementType = "out"
)

type Movement struct {
	ID          int          `json:"id"`
	Type        MovementType `json:"type"`
	Product     string       `json:"product"`
	Quantity    int          `json:"quantity"`
	StockBefore int          `json:"stock_before"`
	StockAfter  int          `json:"stock_after"`
	Expiry      string       `json:"expiry"`
	Batch       string       `json:"batch"`
	Provider    string       `json:"provider"`
	Reason      string       `json:"reason"`
	Responsible string       `json:"responsible"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
}

type MovementRequest struct {
	Type        MovementType `json:"type"`
	Product     string       `json:"product"`
	Quantity    int          `json:"quantity"`
	Expiry      string       `json:"expiry,omitempty"`
	Batch       string       `json:"batch,omitempty"`
	Provider    string       `json:"provider,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Responsible string       `json:"responsible,omitempty"`
}

// MovementResult is the product after the movement and the logged movement.
// Created is set when a stock-in registered a new product.
type MovementResult struct {
	Product  Product  `json:"product"`
	Movement Movement `json:"movement"`
	Created  bool     `json:"created"`
}

type Alert struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Product string `json:"product"`
	Message string `json:"message"`
	Stock   int    `json:"stock"`
	Expiry  string `json:"expiry,omitempty"`
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	User      User   `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}
