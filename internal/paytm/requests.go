package paytm

import (
	"fmt"
	"strings"

	errors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/core/common/dates"
)

// CurrencyINR is the only currency the gateway settles.
const CurrencyINR = "INR"

const maxPassbookWindowDays = 30

// CreateLinkRequest describes a payment link to create. A nil Amount asks
// for an open link where the customer decides the amount; a fixed amount
// must be positive.
type CreateLinkRequest struct {
	RecipientName  string
	Purpose        string
	CustomerEmail  string
	CustomerMobile string
	Amount         *float64
	Currency       string
	ExpiryDate     string
}

// Validate is checked before anything is serialized; a failure here means
// no network call was made.
func (r *CreateLinkRequest) Validate() *errors.AppError {
	if strings.TrimSpace(r.RecipientName) == "" {
		return errors.NewValidationFieldError("recipient_name", "recipient_name is required", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(r.Purpose) == "" {
		return errors.NewValidationFieldError("purpose", "purpose is required", errors.ErrCodeValidationFailed)
	}
	if r.CustomerEmail == "" && r.CustomerMobile == "" {
		return errors.NewValidationError(
			"either customer_email or customer_mobile must be provided",
			errors.ErrCodeMissingCustomerContact)
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return errors.NewValidationFieldError("amount", "amount must be greater than zero", errors.ErrCodeInvalidAmount)
	}
	if r.Currency != "" && r.Currency != CurrencyINR {
		return errors.NewValidationError(
			fmt.Sprintf("currency %s is not supported, only %s", r.Currency, CurrencyINR),
			errors.ErrCodeUnsupportedCurrency)
	}
	return nil
}

// linkName mirrors the gateway convention of purpose_recipient with
// underscores in place of spaces.
func (r *CreateLinkRequest) linkName() string {
	return strings.ReplaceAll(r.Purpose, " ", "_") + "_" + strings.ReplaceAll(r.RecipientName, " ", "_")
}

type RefundRequest struct {
	OrderID      string
	TxnID        string
	RefID        string
	RefundAmount float64
}

func (r *RefundRequest) Validate() *errors.AppError {
	if strings.TrimSpace(r.OrderID) == "" {
		return errors.NewValidationFieldError("order_id", "order_id is required", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(r.TxnID) == "" {
		return errors.NewValidationFieldError("txn_id", "txn_id is required", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(r.RefID) == "" {
		return errors.NewValidationFieldError("ref_id", "ref_id is required", errors.ErrCodeValidationFailed)
	}
	if len(r.RefID) > 50 {
		return errors.NewValidationFieldError("ref_id", "ref_id must not exceed 50 characters", errors.ErrCodeValidationFailed)
	}
	if r.RefundAmount <= 0 {
		return errors.NewValidationFieldError("refund_amount", "refund_amount must be greater than zero", errors.ErrCodeInvalidAmount)
	}
	return nil
}

type RefundListQuery struct {
	StartDate string
	EndDate   string
	IsSort    bool
	PageNum   int
	PageSize  int
}

func (q *RefundListQuery) Validate() *errors.AppError {
	if q.StartDate == "" || q.EndDate == "" {
		return errors.NewValidationError("start_date and end_date are required", errors.ErrCodeInvalidDate)
	}
	if !dates.WithinWindow(q.StartDate, q.EndDate, maxPassbookWindowDays) {
		return errors.NewValidationError(
			fmt.Sprintf("date range must be valid and span at most %d days", maxPassbookWindowDays),
			errors.ErrCodeInvalidDateRange)
	}
	if q.PageNum < 1 {
		return errors.NewValidationFieldError("page_num", "page_num must be at least 1", errors.ErrCodeValidationFailed)
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		return errors.NewValidationFieldError("page_size", "page_size must be between 1 and 50", errors.ErrCodeValidationFailed)
	}
	return nil
}

type OrderListQuery struct {
	FromDate          string
	ToDate            string
	OrderSearchType   string
	OrderSearchStatus string
	PageNumber        int
	PageSize          int
}

var validOrderSearchStatuses = map[string]bool{
	"SUCCESS": true,
	"FAILURE": true,
	"PENDING": true,
}

func (q *OrderListQuery) Validate() *errors.AppError {
	if q.FromDate == "" || q.ToDate == "" {
		return errors.NewValidationError("from_date and to_date are required", errors.ErrCodeInvalidDate)
	}
	if !dates.WithinWindow(q.FromDate, q.ToDate, maxPassbookWindowDays) {
		return errors.NewValidationError(
			fmt.Sprintf("date range must be valid and span at most %d days", maxPassbookWindowDays),
			errors.ErrCodeInvalidDateRange)
	}
	if q.OrderSearchType == "" {
		return errors.NewValidationFieldError("order_search_type", "order_search_type is required", errors.ErrCodeValidationFailed)
	}
	if q.OrderSearchStatus != "" && !validOrderSearchStatuses[q.OrderSearchStatus] {
		return errors.NewValidationFieldError("order_search_status",
			"order_search_status must be one of: SUCCESS, FAILURE, PENDING", errors.ErrCodeValidationFailed)
	}
	if q.PageNumber < 1 {
		return errors.NewValidationFieldError("page_number", "page_number must be at least 1", errors.ErrCodeValidationFailed)
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		return errors.NewValidationFieldError("page_size", "page_size must be between 1 and 50", errors.ErrCodeValidationFailed)
	}
	return nil
}
