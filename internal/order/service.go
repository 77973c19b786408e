package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/merchantops/paytm-gateway/internal/core/common/dates"
	"github.com/merchantops/paytm-gateway/internal/core/events"
	"github.com/merchantops/paytm-gateway/internal/paytm"
)

const (
	defaultTimeRangeDays = 7
	defaultSearchType    = "TRANSACTION"
	defaultSearchStatus  = "SUCCESS"
)

type GatewayAPI interface {
	FetchOrderList(ctx context.Context, q *paytm.OrderListQuery) (*paytm.OrderListPage, error)
}

type ServiceAPI interface {
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)
}

type Service struct {
	gateway GatewayAPI
	bus     *events.EventBus
	logger  *slog.Logger
}

func NewService(gateway GatewayAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		bus:     bus,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	applyListDefaults(req)

	start := time.Now()
	page, err := s.gateway.FetchOrderList(ctx, &paytm.OrderListQuery{
		FromDate:          req.FromDate,
		ToDate:            req.ToDate,
		OrderSearchType:   req.SearchType,
		OrderSearchStatus: req.SearchStatus,
		PageNumber:        req.PageNumber,
		PageSize:          req.PageSize,
	})
	events.RecordOperation(ctx, s.bus, paytm.OpFetchOrderList, "", time.Since(start), err)
	if err != nil {
		s.logger.Error("order list fetch failed", "error", err)
		return nil, err
	}

	resp := &ListResponse{
		Orders:     make([]OrderResponse, 0, len(page.Orders)),
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
	for _, o := range page.Orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	return resp, nil
}

func applyListDefaults(req *ListRequest) {
	if req.FromDate == "" || req.ToDate == "" {
		days := req.TimeRangeDays
		if days <= 0 {
			days = defaultTimeRangeDays
		}
		req.FromDate = dates.DaysBack(days)
		req.ToDate = dates.Now()
	}
	if req.SearchType == "" {
		req.SearchType = defaultSearchType
	}
	if req.SearchStatus == "" {
		req.SearchStatus = defaultSearchStatus
	}
	if req.PageNumber <= 0 {
		req.PageNumber = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
}
