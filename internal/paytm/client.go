// Package paytm is the gateway adapter: it turns named merchant operations
// into signed HTTP exchanges against the payment gateway and normalizes
// every outcome into a typed result or a typed error. The adapter holds no
// mutable state beyond its immutable credentials and is safe for concurrent
// use; it never retries on its own.
package paytm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	errors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/checksum"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
)

const (
	pathLinkCreate   = "/link/create"
	pathLinkFetch    = "/link/fetch"
	pathLinkTxns     = "/link/fetchTransaction"
	pathRefundApply  = "/refund/apply"
	pathRefundStatus = "/v2/refund/status"
	pathRefundList   = "/merchant-passbook/api/v1/refundList"
	pathOrderList    = "/merchant-passbook/search/list/order/v2"
)

// Operation names carried on errors so callers can tell which call failed.
const (
	OpCreatePaymentLink     = "create_payment_link"
	OpFetchPaymentLinks     = "fetch_payment_links"
	OpFetchLinkTransactions = "fetch_link_transactions"
	OpInitiateRefund        = "initiate_refund"
	OpFetchRefundStatus     = "fetch_refund_status"
	OpFetchRefundList       = "fetch_refund_list"
	OpFetchOrderList        = "fetch_order_list"
)

type Config struct {
	BaseURL        string
	MID            string
	KeySecret      string
	RequestTimeout time.Duration
}

type Client struct {
	baseURL    string
	mid        string
	key        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		mid:     cfg.MID,
		key:     cfg.KeySecret,
		timeout: timeout,
		// timeout is enforced per call through the request context
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// PaymentLinkPage is one bounded page of links. NextPage carries the
// gateway's continuation token when it paginates; the adapter never follows
// it on its own.
type PaymentLinkPage struct {
	Links    []datamodel.PaymentLink `json:"links"`
	NextPage string                  `json:"next_page,omitempty"`
}

type RefundListPage struct {
	Count    int                         `json:"count"`
	Refunds  []datamodel.RefundListEntry `json:"refunds"`
	PageNum  int                         `json:"page_num"`
	PageSize int                         `json:"page_size"`
}

type OrderListPage struct {
	Orders     []datamodel.Order `json:"orders"`
	PageNumber int               `json:"page_number"`
	PageSize   int               `json:"page_size"`
}

// CreatePaymentLink validates the request, signs the canonical body and
// asks the gateway for a new link. The response body is only trusted after
// its signature verifies.
func (c *Client) CreatePaymentLink(ctx context.Context, req *CreateLinkRequest) (*datamodel.PaymentLink, error) {
	if appErr := req.Validate(); appErr != nil {
		return nil, appErr.WithOperation(OpCreatePaymentLink, "")
	}

	body := createLinkBody{
		MID:                c.mid,
		LinkType:           "FIXED",
		LinkDescription:    "Payment for " + req.Purpose,
		LinkName:           req.linkName(),
		SendSMS:            req.CustomerMobile != "",
		SendEmail:          req.CustomerEmail != "",
		MaxPaymentsAllowed: 1,
		ExpiryDate:         req.ExpiryDate,
		CustomerContact: datamodel.CustomerContact{
			CustomerName:   req.RecipientName,
			CustomerEmail:  req.CustomerEmail,
			CustomerMobile: req.CustomerMobile,
		},
	}
	if req.Amount == nil {
		body.LinkType = "GENERIC"
	} else {
		body.Amount = fmt.Sprintf("%.2f", *req.Amount)
	}

	raw, appErr := c.exchange(ctx, OpCreatePaymentLink, pathLinkCreate, tokenTypeAES, "", body, req.linkName())
	if appErr != nil {
		return nil, appErr
	}

	var resp createLinkResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpCreatePaymentLink, req.linkName(), err)
	}
	if !resp.ResultInfo.IsSuccess() {
		return nil, c.failure(OpCreatePaymentLink, req.linkName(), resp.ResultInfo)
	}

	link := &datamodel.PaymentLink{
		LinkID:          resp.LinkID,
		LinkName:        firstNonEmpty(resp.LinkName, body.LinkName),
		LinkDescription: body.LinkDescription,
		ShortURL:        resp.ShortURL,
		Status:          datamodel.NormalizeLinkStatus(firstNonEmpty(resp.Status, "ACTIVE")),
		Amount:          firstNonEmpty(resp.Amount, body.Amount),
		CreatedDate:     resp.CreatedAt,
		ExpiryDate:      resp.ExpiryDate,
	}

	c.logger.Info("payment link created", "link_id", link.LinkID, "link_name", link.LinkName)
	return link, nil
}

// FetchPaymentLinks returns one freshly fetched, bounded page of every link
// the merchant owns.
func (c *Client) FetchPaymentLinks(ctx context.Context) (*PaymentLinkPage, error) {
	raw, appErr := c.exchange(ctx, OpFetchPaymentLinks, pathLinkFetch, tokenTypeAES, "WEB", fetchLinksBody{MID: c.mid}, "")
	if appErr != nil {
		return nil, appErr
	}

	var resp fetchLinksResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpFetchPaymentLinks, "", err)
	}
	if !resp.ResultInfo.IsSuccess() {
		return nil, c.failure(OpFetchPaymentLinks, "", resp.ResultInfo)
	}

	page := &PaymentLinkPage{
		Links:    make([]datamodel.PaymentLink, 0, len(resp.Links)),
		NextPage: resp.NextPage,
	}
	for _, l := range resp.Links {
		page.Links = append(page.Links, datamodel.PaymentLink{
			LinkID:          l.LinkID,
			LinkName:        l.LinkName,
			LinkDescription: l.LinkDescription,
			ShortURL:        l.ShortURL,
			Status:          datamodel.NormalizeLinkStatus(firstNonEmpty(l.Status, "ACTIVE")),
			Amount:          l.Amount,
			CreatedDate:     l.CreatedDate,
			ExpiryDate:      l.ExpiryDate,
		})
	}

	c.logger.Info("payment links fetched", "count", len(page.Links))
	return page, nil
}

// FetchLinkTransactions lists every transaction recorded against one link.
// The gateway is authoritative on whether the link exists.
func (c *Client) FetchLinkTransactions(ctx context.Context, linkID string) ([]datamodel.Transaction, error) {
	if strings.TrimSpace(linkID) == "" {
		return nil, errors.NewValidationFieldError("link_id", "link_id is required", errors.ErrCodeValidationFailed).
			WithOperation(OpFetchLinkTransactions, "")
	}

	body := fetchTransactionsBody{MID: c.mid, LinkID: linkID, FetchAllTxn: false}
	raw, appErr := c.exchange(ctx, OpFetchLinkTransactions, pathLinkTxns, tokenTypeAES, "", body, linkID)
	if appErr != nil {
		return nil, appErr
	}

	var resp fetchTransactionsResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpFetchLinkTransactions, linkID, err)
	}
	if !resp.ResultInfo.IsSuccess() {
		return nil, c.failure(OpFetchLinkTransactions, linkID, resp.ResultInfo)
	}

	txns := make([]datamodel.Transaction, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		txns = append(txns, datamodel.Transaction{
			TxnID:         o.TxnID,
			OrderID:       o.OrderID,
			LinkID:        linkID,
			Amount:        o.TxnAmount,
			Status:        datamodel.NormalizeTxnStatus(o.OrderStatus),
			CompletedTime: o.CompletedTime,
			PayMode:       o.PayMode,
			CustomerPhone: o.CustomerPhone,
			CustomerEmail: o.CustomerEmail,
		})
	}

	c.logger.Info("link transactions fetched", "link_id", linkID, "count", len(txns))
	return txns, nil
}

// exchange serializes the canonical body, signs it, POSTs the envelope and
// verifies the response signature. It returns the verified response body;
// nothing of the body is surfaced unless verification passed.
func (c *Client) exchange(ctx context.Context, op, path, tokenType, channelID string, body interface{}, ref string) (json.RawMessage, *errors.AppError) {
	canonical, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInternalError("failed to serialize request body", err).WithOperation(op, ref)
	}

	signature, err := checksum.Generate(string(canonical), c.key)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign request", err).WithOperation(op, ref)
	}

	envelope := requestEnvelope{
		Head: requestHead{TokenType: tokenType, ChannelID: channelID, Signature: signature},
		Body: canonical,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, errors.NewInternalError("failed to serialize request envelope", err).WithOperation(op, ref)
	}

	callCtx, cancel := errors.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternalError("failed to create HTTP request", err).WithOperation(op, ref)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending gateway request", "operation", op, "path", path)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(op, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewGatewayError(fmt.Sprintf("HTTP_%d", resp.StatusCode),
			"gateway returned a non-success status").WithOperation(op, ref)
	}

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(op, ref, err)
	}

	var env responseEnvelope
	if err := json.Unmarshal(rawResp, &env); err != nil {
		return nil, c.badResponse(op, ref, err)
	}

	if env.Head.Signature == "" {
		return nil, errors.NewAuthenticationError("response carries no signature",
			errors.ErrCodeSignatureMissing).WithOperation(op, ref)
	}
	// The signature covers the body bytes exactly as the gateway sent them.
	if err := checksum.Verify(string(env.Body), c.key, env.Head.Signature); err != nil {
		c.logger.Error("response signature verification failed", "operation", op)
		return nil, errors.NewAuthenticationError("response signature verification failed",
			errors.ErrCodeSignatureMismatch).WithOperation(op, ref)
	}

	return env.Body, nil
}

func (c *Client) transportError(op, ref string, err error) *errors.AppError {
	var urlErr *url.Error
	timedOut := stderrors.Is(err, context.DeadlineExceeded)
	if stderrors.As(err, &urlErr) && urlErr.Timeout() {
		timedOut = true
	}

	if timedOut {
		c.logger.Warn("gateway request timed out", "operation", op)
		return errors.NewNetworkError("gateway request timed out",
			errors.ErrCodeRequestTimeout, err).WithOperation(op, ref)
	}

	c.logger.Warn("gateway request failed", "operation", op, "error", err)
	return errors.NewNetworkError("gateway request failed",
		errors.ErrCodeConnectionFailed, err).WithOperation(op, ref)
}

func (c *Client) badResponse(op, ref string, err error) *errors.AppError {
	return &errors.AppError{
		Type:       errors.ErrorTypeGateway,
		Code:       errors.ErrCodeGatewayResponse,
		Message:    "gateway returned a malformed response",
		StatusCode: http.StatusBadGateway,
		Cause:      err,
		Operation:  op,
		Reference:  ref,
	}
}

// failure maps a gateway-reported business failure onto the typed error
// set, preserving the gateway's own code and message.
func (c *Client) failure(op, ref string, info datamodel.ResultInfo) *errors.AppError {
	if isNotFound(info) {
		var msg string
		switch op {
		case OpFetchLinkTransactions:
			msg = fmt.Sprintf("payment link %s not found at gateway", ref)
		default:
			msg = "referenced entity not found at gateway"
		}
		code := errors.ErrCodeLinkNotFound
		if op == OpFetchRefundStatus {
			code = errors.ErrCodeRefundNotFound
		}
		return errors.NewNotFoundError(msg, code, info.ResultCode).WithOperation(op, ref)
	}
	return errors.NewGatewayError(info.ResultCode, info.ResultMessage()).WithOperation(op, ref)
}

// The gateway has no dedicated not-found status; it reports a FAILURE with
// a code or message that names the missing entity.
func isNotFound(info datamodel.ResultInfo) bool {
	code := strings.ToUpper(info.ResultCode)
	if code == "404" || strings.Contains(code, "NOT_FOUND") {
		return true
	}
	return strings.Contains(strings.ToLower(info.ResultMessage()), "not found")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
