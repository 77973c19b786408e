package paytm

import (
	"context"
	"encoding/json"
	"strconv"
)

// FetchOrderList returns one page of the merchant passbook's order view for
// a bounded date range. The gateway's pagination is surfaced verbatim and
// never auto-followed.
func (c *Client) FetchOrderList(ctx context.Context, q *OrderListQuery) (*OrderListPage, error) {
	if appErr := q.Validate(); appErr != nil {
		return nil, appErr.WithOperation(OpFetchOrderList, "")
	}

	body := orderListBody{
		MID:               c.mid,
		FromDate:          q.FromDate,
		ToDate:            q.ToDate,
		OrderSearchType:   q.OrderSearchType,
		OrderSearchStatus: q.OrderSearchStatus,
		PageNumber:        strconv.Itoa(q.PageNumber),
		PageSize:          strconv.Itoa(q.PageSize),
		IsSort:            true,
	}

	raw, appErr := c.exchange(ctx, OpFetchOrderList, pathOrderList, tokenTypeChecksum, "", body, "")
	if appErr != nil {
		return nil, appErr
	}

	var resp orderListResponseBody
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.badResponse(OpFetchOrderList, "", err)
	}
	if !resp.ResultInfo.IsSuccess() {
		return nil, c.failure(OpFetchOrderList, "", resp.ResultInfo)
	}

	c.logger.Info("order list fetched", "count", len(resp.Orders), "page_number", q.PageNumber)
	return &OrderListPage{
		Orders:     resp.Orders,
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}, nil
}
