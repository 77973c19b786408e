package paytm

import (
	"encoding/json"

	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
)

// Token types fixed by the gateway contract: link APIs sign with AES, the
// merchant passbook APIs with CHECKSUM.
const (
	tokenTypeAES      = "AES"
	tokenTypeChecksum = "CHECKSUM"
)

type requestHead struct {
	TokenType string `json:"tokenType,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
	Signature string `json:"signature"`
}

// requestEnvelope carries the canonical body verbatim; the signature in the
// head covers exactly those bytes.
type requestEnvelope struct {
	Head requestHead     `json:"head"`
	Body json.RawMessage `json:"body"`
}

type responseHead struct {
	Signature string `json:"signature"`
}

type responseEnvelope struct {
	Head responseHead    `json:"head"`
	Body json.RawMessage `json:"body"`
}

// ---- wire bodies, field order fixed so serialization is deterministic ----

type createLinkBody struct {
	MID                string                    `json:"mid"`
	LinkType           string                    `json:"linkType"`
	LinkDescription    string                    `json:"linkDescription"`
	LinkName           string                    `json:"linkName"`
	SendSMS            bool                      `json:"sendSms"`
	SendEmail          bool                      `json:"sendEmail"`
	MaxPaymentsAllowed int                       `json:"maxPaymentsAllowed"`
	Amount             string                    `json:"amount,omitempty"`
	ExpiryDate         string                    `json:"expiryDate,omitempty"`
	CustomerContact    datamodel.CustomerContact `json:"customerContact"`
}

type createLinkResponseBody struct {
	ResultInfo datamodel.ResultInfo `json:"resultInfo"`
	LinkID     int64                `json:"linkId"`
	LinkName   string               `json:"linkName"`
	ShortURL   string               `json:"shortUrl"`
	Status     string               `json:"status"`
	Amount     string               `json:"amount"`
	CreatedAt  string               `json:"createdDate"`
	ExpiryDate string               `json:"expiryDate"`
}

type fetchLinksBody struct {
	MID string `json:"mid"`
}

type fetchLinksResponseBody struct {
	ResultInfo datamodel.ResultInfo `json:"resultInfo"`
	Links      []fetchedLink        `json:"links"`
	NextPage   string               `json:"nextPage,omitempty"`
}

type fetchedLink struct {
	LinkID          int64  `json:"linkId"`
	LinkName        string `json:"linkName"`
	LinkDescription string `json:"linkDescription"`
	ShortURL        string `json:"shortUrl"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	CreatedDate     string `json:"createdDate"`
	ExpiryDate      string `json:"expiryDate"`
}

type fetchTransactionsBody struct {
	MID         string `json:"mid"`
	LinkID      string `json:"linkId"`
	FetchAllTxn bool   `json:"fetchAllTxns"`
}

type fetchTransactionsResponseBody struct {
	ResultInfo datamodel.ResultInfo `json:"resultInfo"`
	Orders     []fetchedTxn         `json:"orders"`
}

type fetchedTxn struct {
	TxnID         string `json:"txnId"`
	OrderID       string `json:"orderId"`
	TxnAmount     string `json:"txnAmount"`
	OrderStatus   string `json:"orderStatus"`
	CompletedTime string `json:"orderCompletedTime"`
	PayMode       string `json:"payMode"`
	CustomerPhone string `json:"customerPhoneNumber"`
	CustomerEmail string `json:"customerEmail"`
}

type refundApplyBody struct {
	MID          string `json:"mid"`
	TxnType      string `json:"txnType"`
	OrderID      string `json:"orderId"`
	TxnID        string `json:"txnId"`
	RefID        string `json:"refId"`
	RefundAmount string `json:"refundAmount"`
}

type refundApplyResponseBody struct {
	ResultInfo   datamodel.ResultInfo `json:"resultInfo"`
	RefundID     string               `json:"refundId"`
	TxnID        string               `json:"txnId"`
	RefundAmount string               `json:"refundAmount"`
}

type refundStatusBody struct {
	MID     string `json:"mid"`
	OrderID string `json:"orderId"`
	RefID   string `json:"refId"`
}

type refundStatusResponseBody struct {
	ResultInfo        datamodel.ResultInfo `json:"resultInfo"`
	RefundStatus      string               `json:"refundStatus"`
	RefundID          string               `json:"refundId"`
	TxnID             string               `json:"txnId"`
	RefundAmount      string               `json:"refundAmount"`
	TotalRefundAmount string               `json:"totalRefundAmount"`
	TxnAmount         string               `json:"txnAmount"`
}

// The passbook APIs take pagination values as strings.
type refundListBody struct {
	MID       string `json:"mid"`
	IsSort    string `json:"isSort"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PageNum   string `json:"pageNum"`
	PageSize  string `json:"pageSize"`
}

type refundListResponseBody struct {
	Status string                      `json:"status"`
	Count  int                         `json:"count"`
	Orders []datamodel.RefundListEntry `json:"orders"`
	Error  string                      `json:"errorMessage,omitempty"`
}

type orderListBody struct {
	MID               string `json:"mid"`
	FromDate          string `json:"fromDate"`
	ToDate            string `json:"toDate"`
	OrderSearchType   string `json:"orderSearchType"`
	OrderSearchStatus string `json:"orderSearchStatus,omitempty"`
	PageNumber        string `json:"pageNumber"`
	PageSize          string `json:"pageSize"`
	IsSort            bool   `json:"isSort"`
}

type orderListResponseBody struct {
	ResultInfo datamodel.ResultInfo `json:"resultInfo"`
	Orders     []datamodel.Order    `json:"orders"`
}
