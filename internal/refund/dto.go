package refund

import (
	errors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/core/common/validation"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
)

type InitiateRequest struct {
	OrderID      string  `json:"order_id"`
	TxnID        string  `json:"txn_id"`
	RefID        string  `json:"ref_id"`
	RefundAmount float64 `json:"refund_amount"`
}

func (r *InitiateRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("order_id", r.OrderID).Required()
	validator.Field("txn_id", r.TxnID).Required()
	validator.Field("ref_id", r.RefID).Required().MaxLength(50)
	validator.Field("refund_amount", r.RefundAmount).Required().Positive(errors.ErrCodeInvalidAmount)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ListRequest selects a passbook window. Dates are optional: when absent
// the service derives them from time_range_days ending now.
type ListRequest struct {
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	TimeRangeDays int    `json:"time_range_days,omitempty"`
	IsSort        bool   `json:"is_sort"`
	PageNum       int    `json:"page_num"`
	PageSize      int    `json:"page_size"`
}

type RefundResponse struct {
	RefundID          string `json:"refund_id,omitempty"`
	OrderID           string `json:"order_id"`
	RefID             string `json:"ref_id"`
	TxnID             string `json:"txn_id,omitempty"`
	RefundAmount      string `json:"refund_amount,omitempty"`
	TxnAmount         string `json:"txn_amount,omitempty"`
	TotalRefundAmount string `json:"total_refund_amount,omitempty"`
	Status            string `json:"status"`
}

type ListEntryResponse struct {
	OrderID      string `json:"order_id"`
	RefundID     string `json:"refund_id"`
	RefID        string `json:"ref_id"`
	TxnAmount    string `json:"txn_amount"`
	RefundAmount string `json:"refund_amount"`
	Status       string `json:"status"`
	RefundTime   string `json:"refund_time"`
}

type ListResponse struct {
	Count    int                 `json:"count"`
	Refunds  []ListEntryResponse `json:"refunds"`
	PageNum  int                 `json:"page_num"`
	PageSize int                 `json:"page_size"`
}

func toRefundResponse(r *datamodel.Refund) RefundResponse {
	return RefundResponse{
		RefundID:          r.RefundID,
		OrderID:           r.OrderID,
		RefID:             r.RefID,
		TxnID:             r.TxnID,
		RefundAmount:      r.RefundAmount,
		TxnAmount:         r.TxnAmount,
		TotalRefundAmount: r.TotalRefundAmount,
		Status:            string(r.Status),
	}
}

func toListEntryResponse(e datamodel.RefundListEntry) ListEntryResponse {
	return ListEntryResponse{
		OrderID:      e.OrderID,
		RefundID:     e.RefundID,
		RefID:        e.RefID,
		TxnAmount:    e.TxnAmount,
		RefundAmount: e.RefundAmount,
		Status:       e.Status,
		RefundTime:   e.RefundTime,
	}
}
