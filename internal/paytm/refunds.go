package paytm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	errors "github.com/merchantops/paytm-gateway/internal"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
)

// InitiateRefund asks the gateway to refund part or all of a completed
// transaction. The gateway answers PENDING on acceptance; final status is
// read through FetchRefundStatus.
func (c *Client) InitiateRefund(ctx context.Context, req *RefundRequest) (*datamodel.Refund, error) {
	if appErr := req.Validate(); appErr != nil {
		return nil, appErr.WithOperation(OpInitiateRefund, req.OrderID)
	}

	body := refundApplyBody{
		MID:          c.mid,
		TxnType:      "REFUND",
		OrderID:      req.OrderID,
		TxnID:        req.TxnID,
		RefID:        req.RefID,
		RefundAmount: fmt.Sprintf("%.2f", req.RefundAmount),
	}

	raw, appErr := c.exchange(ctx, OpInitiateRefund, pathRefundApply, "", "", body, req.OrderID)
	if appErr != nil {
		return nil, appErr
	}

	var resp refundApplyResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpInitiateRefund, req.OrderID, err)
	}

	status := resp.ResultInfo.ResultStatus
	if status != string(datamodel.RefundStatusPending) && !resp.ResultInfo.IsSuccess() {
		return nil, c.failure(OpInitiateRefund, req.OrderID, resp.ResultInfo)
	}

	refund := &datamodel.Refund{
		RefundID:     resp.RefundID,
		OrderID:      req.OrderID,
		RefID:        req.RefID,
		TxnID:        firstNonEmpty(resp.TxnID, req.TxnID),
		RefundAmount: firstNonEmpty(resp.RefundAmount, body.RefundAmount),
		Status:       datamodel.RefundStatus(status),
	}

	c.logger.Info("refund initiated", "order_id", req.OrderID, "refund_id", refund.RefundID, "status", refund.Status)
	return refund, nil
}

// FetchRefundStatus reads the current state of a previously initiated
// refund.
func (c *Client) FetchRefundStatus(ctx context.Context, orderID, refID string) (*datamodel.Refund, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.NewValidationFieldError("order_id", "order_id is required", errors.ErrCodeValidationFailed).
			WithOperation(OpFetchRefundStatus, "")
	}
	if strings.TrimSpace(refID) == "" {
		return nil, errors.NewValidationFieldError("ref_id", "ref_id is required", errors.ErrCodeValidationFailed).
			WithOperation(OpFetchRefundStatus, orderID)
	}

	body := refundStatusBody{MID: c.mid, OrderID: orderID, RefID: refID}
	raw, appErr := c.exchange(ctx, OpFetchRefundStatus, pathRefundStatus, "", "", body, orderID)
	if appErr != nil {
		return nil, appErr
	}

	var resp refundStatusResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpFetchRefundStatus, orderID, err)
	}
	if !resp.ResultInfo.IsSuccess() && resp.RefundStatus == "" {
		return nil, c.failure(OpFetchRefundStatus, orderID, resp.ResultInfo)
	}

	return &datamodel.Refund{
		RefundID:          resp.RefundID,
		OrderID:           orderID,
		RefID:             refID,
		TxnID:             resp.TxnID,
		RefundAmount:      resp.RefundAmount,
		TxnAmount:         resp.TxnAmount,
		TotalRefundAmount: resp.TotalRefundAmount,
		Status:            datamodel.RefundStatus(resp.RefundStatus),
	}, nil
}

// FetchRefundList returns one page of the merchant passbook's refund view
// for a bounded date range.
func (c *Client) FetchRefundList(ctx context.Context, q *RefundListQuery) (*RefundListPage, error) {
	if appErr := q.Validate(); appErr != nil {
		return nil, appErr.WithOperation(OpFetchRefundList, "")
	}

	body := refundListBody{
		MID:       c.mid,
		IsSort:    strconv.FormatBool(q.IsSort),
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		PageNum:   strconv.Itoa(q.PageNum),
		PageSize:  strconv.Itoa(q.PageSize),
	}

	raw, appErr := c.exchange(ctx, OpFetchRefundList, pathRefundList, tokenTypeChecksum, "", body, "")
	if appErr != nil {
		return nil, appErr
	}

	var resp refundListResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpFetchRefundList, "", err)
	}
	if resp.Status != "SUCCESS" {
		return nil, errors.NewGatewayError(resp.Status, firstNonEmpty(resp.Error, "refund list fetch failed")).
			WithOperation(OpFetchRefundList, "")
	}

	c.logger.Info("refund list fetched", "count", resp.Count, "page_num", q.PageNum)
	return &RefundListPage{
		Count:    resp.Count,
		Refunds:  resp.Orders,
		PageNum:  q.PageNum,
		PageSize: q.PageSize,
	}, nil
}
