package refund

import (
	"context"
	"log/slog"
	"time"

	"github.com/merchantops/paytm-gateway/internal/core/common/dates"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
	"github.com/merchantops/paytm-gateway/internal/core/events"
	"github.com/merchantops/paytm-gateway/internal/paytm"
)

const defaultTimeRangeDays = 7

type GatewayAPI interface {
	InitiateRefund(ctx context.Context, req *paytm.RefundRequest) (*datamodel.Refund, error)
	FetchRefundStatus(ctx context.Context, orderID, refID string) (*datamodel.Refund, error)
	FetchRefundList(ctx context.Context, q *paytm.RefundListQuery) (*paytm.RefundListPage, error)
}

type ServiceAPI interface {
	Initiate(ctx context.Context, req *InitiateRequest) (*RefundResponse, error)
	Status(ctx context.Context, orderID, refID string) (*RefundResponse, error)
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

func (s *Service) Initiate(ctx context.Context, req *InitiateRequest) (*RefundResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("initiate refund validation failed", "error", err)
		return nil, err
	}

	start := time.Now()
	refund, err := s.gateway.InitiateRefund(ctx, &paytm.RefundRequest{
		OrderID:      req.OrderID,
		TxnID:        req.TxnID,
		RefID:        req.RefID,
		RefundAmount: req.RefundAmount,
	})
	events.RecordOperation(ctx, s.bus, paytm.OpInitiateRefund, req.OrderID, time.Since(start), err)
	if err != nil {
		s.logger.Error("initiate refund failed", "order_id", req.OrderID, "error", err)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewRefundInitiatedEvent(
			refund.OrderID, refund.RefID, refund.RefundID, refund.RefundAmount, string(refund.Status)))
	}

	resp := toRefundResponse(refund)
	return &resp, nil
}

func (s *Service) Status(ctx context.Context, orderID, refID string) (*RefundResponse, error) {
	start := time.Now()
	refund, err := s.gateway.FetchRefundStatus(ctx, orderID, refID)
	events.RecordOperation(ctx, s.bus, paytm.OpFetchRefundStatus, orderID, time.Since(start), err)
	if err != nil {
		s.logger.Error("refund status fetch failed", "order_id", orderID, "error", err)
		return nil, err
	}

	resp := toRefundResponse(refund)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	applyListDefaults(req)

	start := time.Now()
	page, err := s.gateway.FetchRefundList(ctx, &paytm.RefundListQuery{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsSort:    req.IsSort,
		PageNum:   req.PageNum,
		PageSize:  req.PageSize,
	})
	events.RecordOperation(ctx, s.bus, paytm.OpFetchRefundList, "", time.Since(start), err)
	if err != nil {
		s.logger.Error("refund list fetch failed", "error", err)
		return nil, err
	}

	resp := &ListResponse{
		Count:    page.Count,
		Refunds:  make([]ListEntryResponse, 0, len(page.Refunds)),
		PageNum:  page.PageNum,
		PageSize: page.PageSize,
	}
	for _, e := range page.Refunds {
		resp.Refunds = append(resp.Refunds, toListEntryResponse(e))
	}
	return resp, nil
}

// applyListDefaults fills the date window from time_range_days when the
// caller gave no explicit dates, and bounds pagination defaults.
func applyListDefaults(req *ListRequest) {
	if req.StartDate == "" || req.EndDate == "" {
		days := req.TimeRangeDays
		if days <= 0 {
			days = defaultTimeRangeDays
		}
		req.StartDate = dates.DaysBack(days)
		req.EndDate = dates.Now()
	}
	if req.PageNum <= 0 {
		req.PageNum = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
}
