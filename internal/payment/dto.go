package payment

import (
	errors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/core/common/validation"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
	"github.com/merchantops/paytm-gateway/internal/paytm"
)

// CreateLinkRequest is the inbound payload for creating a payment link.
// Amount may be omitted for an open link where the customer decides.
type CreateLinkRequest struct {
	RecipientName  string   `json:"recipient_name"`
	Purpose        string   `json:"purpose"`
	CustomerEmail  string   `json:"customer_email,omitempty"`
	CustomerMobile string   `json:"customer_mobile,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	ExpiryDate     string   `json:"expiry_date,omitempty"`
}

// Normalize clears contact fields that hosts sometimes send as literal
// "null" strings.
func (r *CreateLinkRequest) Normalize() {
	if r.CustomerEmail == "null" {
		r.CustomerEmail = ""
	}
	if r.CustomerMobile == "null" {
		r.CustomerMobile = ""
	}
}

func (r *CreateLinkRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("recipient_name", r.RecipientName).Required().MaxLength(255)
	validator.Field("purpose", r.Purpose).Required().MaxLength(500)
	validator.Field("currency", r.Currency).OneOf([]string{paytm.CurrencyINR}, errors.ErrCodeUnsupportedCurrency)
	if r.Amount != nil {
		validator.Field("amount", *r.Amount).Positive(errors.ErrCodeInvalidAmount)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if r.CustomerEmail == "" && r.CustomerMobile == "" {
		return errors.NewValidationError(
			"either customer_email or customer_mobile must be provided",
			errors.ErrCodeMissingCustomerContact)
	}
	return nil
}

type LinkResponse struct {
	LinkID      int64  `json:"link_id"`
	LinkName    string `json:"link_name"`
	Description string `json:"description,omitempty"`
	ShortURL    string `json:"short_url"`
	Status      string `json:"status"`
	Amount      string `json:"amount,omitempty"`
	Currency    string `json:"currency"`
	CreatedDate string `json:"created_date,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`
}

type LinkListResponse struct {
	Links    []LinkResponse `json:"links"`
	NextPage string         `json:"next_page,omitempty"`
}

type TransactionResponse struct {
	TxnID         string `json:"txn_id"`
	OrderID       string `json:"order_id"`
	LinkID        string `json:"link_id"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	CompletedTime string `json:"completed_time,omitempty"`
	PayMode       string `json:"pay_mode,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type TransactionListResponse struct {
	LinkID       string                `json:"link_id"`
	Transactions []TransactionResponse `json:"transactions"`
}

func toLinkResponse(link *datamodel.PaymentLink) LinkResponse {
	return LinkResponse{
		LinkID:      link.LinkID,
		LinkName:    link.LinkName,
		Description: link.LinkDescription,
		ShortURL:    link.ShortURL,
		Status:      string(link.Status),
		Amount:      link.Amount,
		Currency:    paytm.CurrencyINR,
		CreatedDate: link.CreatedDate,
		ExpiryDate:  link.ExpiryDate,
	}
}

func toTransactionResponse(t datamodel.Transaction) TransactionResponse {
	return TransactionResponse{
		TxnID:         t.TxnID,
		OrderID:       t.OrderID,
		LinkID:        t.LinkID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		CompletedTime: t.CompletedTime,
		PayMode:       t.PayMode,
		CustomerPhone: t.CustomerPhone,
		CustomerEmail: t.CustomerEmail,
	}
}
