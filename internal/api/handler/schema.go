package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=USER ADMIN"`
	Consent  bool   `json:"consent"`
}

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=USER ADMIN"`
}

type consentRequest struct {
	Granted *bool `json:"granted" validate:"required"`
}

type userResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	ConsentGiven bool       `json:"consent_given"`
	ConsentAt    *time.Time `json:"consent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// --- Transactions ---

type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"      swaggertype:"string" example:"100.50"`
	Description string          `json:"description" validate:"max=255"`
	Type        string          `json:"type"        validate:"required,oneof=DEPOSIT WITHDRAWAL DEBIT CREDIT"`
}

type createTransactionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	transactionRequest
}

type transactionResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"100.50"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}
