package order

import (
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
)

// ListRequest selects a passbook order window. Dates are optional: when
// absent the service derives them from time_range_days ending now.
type ListRequest struct {
	FromDate      string `json:"from_date,omitempty"`
	ToDate        string `json:"to_date,omitempty"`
	TimeRangeDays int    `json:"time_range_days,omitempty"`
	SearchType    string `json:"order_search_type,omitempty"`
	SearchStatus  string `json:"order_search_status,omitempty"`
	PageNumber    int    `json:"page_number"`
	PageSize      int    `json:"page_size"`
}

type OrderResponse struct {
	OrderID       string `json:"order_id"`
	TxnID         string `json:"txn_id"`
	Amount        string `json:"amount"`
	PayMode       string `json:"pay_mode,omitempty"`
	CreatedTime   string `json:"created_time,omitempty"`
	CompletedTime string `json:"completed_time,omitempty"`
	Status        string `json:"status,omitempty"`
	MerchantName  string `json:"merchant_name,omitempty"`
	VanID         string `json:"van_id,omitempty"`
	RRN           string `json:"rrn,omitempty"`
	VanIFSCCode   string `json:"van_ifsc_code,omitempty"`
}

type ListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

func toOrderResponse(o datamodel.Order) OrderResponse {
	return OrderResponse{
		OrderID:       o.OrderID,
		TxnID:         o.TxnID,
		Amount:        o.Amount,
		PayMode:       o.PayMode,
		CreatedTime:   o.CreatedTime,
		CompletedTime: o.CompletedTime,
		Status:        o.Status,
		MerchantName:  o.MerchantName,
		VanID:         o.VanID,
		RRN:           o.RRN,
		VanIFSCCode:   o.VanIFSCCode,
	}
}
