package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeGateway        ErrorType = "GATEWAY_ERROR"
	ErrorTypeNetwork        ErrorType = "NETWORK_ERROR"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount          ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate            ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateRange       ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeMissingCustomerContact ErrorCode = "MISSING_CUSTOMER_CONTACT"
	ErrCodeUnsupportedCurrency    ErrorCode = "UNSUPPORTED_CURRENCY"

	ErrCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"
	ErrCodeSignatureMissing  ErrorCode = "SIGNATURE_MISSING"

	ErrCodeLinkNotFound   ErrorCode = "LINK_NOT_FOUND"
	ErrCodeRefundNotFound ErrorCode = "REFUND_NOT_FOUND"

	ErrCodeGatewayFailure  ErrorCode = "GATEWAY_FAILURE"
	ErrCodeGatewayResponse ErrorCode = "GATEWAY_BAD_RESPONSE"

	ErrCodeRequestTimeout   ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"

	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// AppError is the shared error shape for the whole service. GatewayCode and
// GatewayMessage carry the gateway's resultCode/resultMessage verbatim when
// the gateway reported the failure; secrets and checksums are never included.
type AppError struct {
	Type           ErrorType   `json:"type"`
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Operation      string      `json:"operation,omitempty"`
	Reference      string      `json:"reference,omitempty"`
	GatewayCode    string      `json:"gateway_code,omitempty"`
	GatewayMessage string      `json:"gateway_message,omitempty"`
	Details        interface{} `json:"details,omitempty"`
	StatusCode     int         `json:"-"`
	Cause          error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithOperation annotates the error with the adapter operation that failed and
// the identifier it was acting on, so callers can act without guessing.
func (e *AppError) WithOperation(operation, reference string) *AppError {
	e.Operation = operation
	e.Reference = reference
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewAuthenticationError marks a signature mismatch on either direction of a
// gateway exchange. Hard failure, never retryable; the body that failed
// verification is never attached.
func NewAuthenticationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
	}
}

func NewNotFoundError(message string, code ErrorCode, gatewayCode string) *AppError {
	return &AppError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		GatewayCode: gatewayCode,
		StatusCode:  http.StatusNotFound,
	}
}

func NewGatewayError(gatewayCode, gatewayMessage string) *AppError {
	return &AppError{
		Type:           ErrorTypeGateway,
		Code:           ErrCodeGatewayFailure,
		Message:        "gateway reported failure",
		GatewayCode:    gatewayCode,
		GatewayMessage: gatewayMessage,
		StatusCode:     http.StatusBadGateway,
	}
}

func NewNetworkError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type           ErrorType   `json:"type"`
		Code           ErrorCode   `json:"code"`
		Message        string      `json:"message"`
		Operation      string      `json:"operation,omitempty"`
		Reference      string      `json:"reference,omitempty"`
		GatewayCode    string      `json:"gateway_code,omitempty"`
		GatewayMessage string      `json:"gateway_message,omitempty"`
		Details        interface{} `json:"details,omitempty"`
	}{
		Type:           e.Type,
		Code:           e.Code,
		Message:        e.Message,
		Operation:      e.Operation,
		Reference:      e.Reference,
		GatewayCode:    e.GatewayCode,
		GatewayMessage: e.GatewayMessage,
		Details:        e.Details,
	})
}
