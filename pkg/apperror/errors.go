package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
	// Limitation is rendered alongside a risk denial when set.
	Limitation interface{} `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

// ---- Payment Intent Logic (PAY) ----

func ErrUnsupportedProvider() *AppError {
	return New("PAY_001", "Unsupported provider", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("PAY_002", "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateProviderRef() *AppError {
	return New("PAY_003", "Provider reference already exists", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidTargetAccount() *AppError {
	return New("PAY_005", "Invalid target account", http.StatusBadRequest)
}

func ErrIntentNotConfirmable(status string) *AppError {
	return New("PAY_006", fmt.Sprintf("Intent is %s and cannot be confirmed", status), http.StatusConflict)
}

func ErrNotDeposit() *AppError {
	return New("PAY_007", "Only deposit intents can be confirmed", http.StatusBadRequest)
}

func ErrPhoneRequired() *AppError {
	return New("PAY_008", "Phone number is required for mobile money providers", http.StatusBadRequest)
}

func ErrInvalidCurrency() *AppError {
	return New("PAY_009", "Currency must be a 3-letter ISO 4217 code", http.StatusBadRequest)
}

// ---- Risk Gating (RISK) ----

var riskCodes = map[string]string{
	"geo_blocked":       "RISK_001",
	"ip_denied":         "RISK_002",
	"device_blocked":    "RISK_003",
	"account_limited":   "RISK_004",
	"cap_exceeded":      "RISK_005",
	"velocity_exceeded": "RISK_006",
}

// ErrRiskDenied maps a gate denial kind to its error code.
func ErrRiskDenied(kind string, message string, httpStatus int) *AppError {
	code, ok := riskCodes[kind]
	if !ok {
		code = "RISK_000"
	}
	return New(code, message, httpStatus)
}

// WithLimitation attaches account limitation details to a risk denial.
func (e *AppError) WithLimitation(details interface{}) *AppError {
	e.Limitation = details
	return e
}

// ---- Authentication (AUTH) ----

func ErrMissingToken() *AppError {
	return New("AUTH_001", "Missing or malformed authorization header", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Insufficient permissions", http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

func ErrUpstreamFailure(err error) *AppError {
	return Wrap("SYS_004", "Upstream service failure", http.StatusBadGateway, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_002-style validation error.
func Validation(message string) *AppError {
	return New("PAY_002", message, http.StatusBadRequest)
}
