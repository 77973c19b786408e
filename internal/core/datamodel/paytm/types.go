// Package paytm holds the gateway-owned entities. Everything here is
// produced by the gateway, treated as read-only and request-scoped; nothing
// is persisted locally.
package paytm

import "strings"

type LinkStatus string

const (
	LinkStatusActive  LinkStatus = "ACTIVE"
	LinkStatusExpired LinkStatus = "EXPIRED"
	LinkStatusClosed  LinkStatus = "CLOSED"
)

type TxnStatus string

const (
	TxnStatusSuccess TxnStatus = "SUCCESS"
	TxnStatusPending TxnStatus = "PENDING"
	TxnStatusFailed  TxnStatus = "FAILED"
)

type RefundStatus string

const (
	RefundStatusPending RefundStatus = "PENDING"
	RefundStatusSuccess RefundStatus = "SUCCESS"
	RefundStatusFailure RefundStatus = "TXN_FAILURE"
)

type CustomerContact struct {
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	CustomerMobile string `json:"customerMobile,omitempty"`
}

type PaymentLink struct {
	LinkID          int64      `json:"linkId"`
	LinkName        string     `json:"linkName"`
	LinkDescription string     `json:"linkDescription,omitempty"`
	ShortURL        string     `json:"shortUrl"`
	Status          LinkStatus `json:"status"`
	Amount          string     `json:"amount,omitempty"`
	CreatedDate     string     `json:"createdDate,omitempty"`
	ExpiryDate      string     `json:"expiryDate,omitempty"`
}

type Transaction struct {
	TxnID         string    `json:"txnId"`
	OrderID       string    `json:"orderId"`
	LinkID        string    `json:"linkId,omitempty"`
	Amount        string    `json:"txnAmount"`
	Status        TxnStatus `json:"orderStatus"`
	CompletedTime string    `json:"orderCompletedTime,omitempty"`
	PayMode       string    `json:"payMode,omitempty"`
	CustomerPhone string    `json:"customerPhoneNumber,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
}

type Refund struct {
	RefundID          string       `json:"refundId"`
	OrderID           string       `json:"orderId"`
	RefID             string       `json:"refId"`
	TxnID             string       `json:"txnId"`
	RefundAmount      string       `json:"refundAmount"`
	TxnAmount         string       `json:"txnAmount,omitempty"`
	TotalRefundAmount string       `json:"totalRefundAmount,omitempty"`
	Status            RefundStatus `json:"refundStatus"`
}

type RefundListEntry struct {
	OrderID      string `json:"orderId"`
	RefundID     string `json:"refundId"`
	RefID        string `json:"refId"`
	TxnAmount    string `json:"txnAmount"`
	RefundAmount string `json:"refundAmount"`
	Status       string `json:"acceptRefundStatus"`
	RefundTime   string `json:"acceptRefundTimeStamp"`
}

type Order struct {
	OrderID       string `json:"merchantOrderId"`
	TxnID         string `json:"txnId"`
	Amount        string `json:"amount"`
	PayMode       string `json:"payMode,omitempty"`
	CreatedTime   string `json:"orderCreatedTime,omitempty"`
	CompletedTime string `json:"orderCompletedTime,omitempty"`
	Status        string `json:"orderSearchStatus,omitempty"`
	MerchantName  string `json:"merchantName,omitempty"`
	VanID         string `json:"vanId,omitempty"`
	RRN           string `json:"rrn,omitempty"`
	VanIFSCCode   string `json:"vanIfscCode,omitempty"`
}

// ResultInfo is the gateway's status block. Link APIs report the message as
// resultMessage, passbook and refund APIs as resultMsg; both are kept and
// ResultMessage() papers over the difference.
type ResultInfo struct {
	ResultStatus string `json:"resultStatus"`
	ResultCode   string `json:"resultCode,omitempty"`
	ResultMsg    string `json:"resultMsg,omitempty"`
	ResultMsgAlt string `json:"resultMessage,omitempty"`
}

func (r ResultInfo) ResultMessage() string {
	if r.ResultMsg != "" {
		return r.ResultMsg
	}
	return r.ResultMsgAlt
}

func (r ResultInfo) IsSuccess() bool {
	return r.ResultStatus == "SUCCESS"
}

// NormalizeLinkStatus maps whatever casing the gateway reports onto the
// supported link states; unknown values pass through uppercased.
func NormalizeLinkStatus(s string) LinkStatus {
	switch strings.ToUpper(s) {
	case "ACTIVE":
		return LinkStatusActive
	case "EXPIRED":
		return LinkStatusExpired
	case "CLOSED", "INACTIVE":
		return LinkStatusClosed
	default:
		return LinkStatus(strings.ToUpper(s))
	}
}

// NormalizeTxnStatus maps gateway order statuses (TXN_SUCCESS, TXN_FAILURE,
// PENDING) onto the transaction states surfaced to callers.
func NormalizeTxnStatus(s string) TxnStatus {
	switch strings.ToUpper(s) {
	case "TXN_SUCCESS", "SUCCESS":
		return TxnStatusSuccess
	case "TXN_FAILURE", "FAILED", "FAILURE":
		return TxnStatusFailed
	case "PENDING":
		return TxnStatusPending
	default:
		return TxnStatus(strings.ToUpper(s))
	}
}
