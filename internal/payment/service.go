package payment

import (
	"context"
	"log/slog"
	"time"

	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
	"github.com/merchantops/paytm-gateway/internal/core/events"
	"github.com/merchantops/paytm-gateway/internal/paytm"
)

// GatewayAPI is the slice of the gateway adapter this service uses.
type GatewayAPI interface {
	CreatePaymentLink(ctx context.Context, req *paytm.CreateLinkRequest) (*datamodel.PaymentLink, error)
	FetchPaymentLinks(ctx context.Context) (*paytm.PaymentLinkPage, error)
	FetchLinkTransactions(ctx context.Context, linkID string) ([]datamodel.Transaction, error)
}

type ServiceAPI interface {
	CreateLink(ctx context.Context, req *CreateLinkRequest) (*LinkResponse, error)
	ListLinks(ctx context.Context) (*LinkListResponse, error)
	ListLinkTransactions(ctx context.Context, linkID string) (*TransactionListResponse, error)
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

func (s *Service) CreateLink(ctx context.Context, req *CreateLinkRequest) (*LinkResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.logger.Warn("create link validation failed", "error", err)
		return nil, err
	}

	start := time.Now()
	link, err := s.gateway.CreatePaymentLink(ctx, &paytm.CreateLinkRequest{
		RecipientName:  req.RecipientName,
		Purpose:        req.Purpose,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
		Amount:         req.Amount,
		Currency:       req.Currency,
		ExpiryDate:     req.ExpiryDate,
	})
	events.RecordOperation(ctx, s.bus, paytm.OpCreatePaymentLink, "", time.Since(start), err)
	if err != nil {
		s.logger.Error("create link failed", "recipient", req.RecipientName, "error", err)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewLinkCreatedEvent(
			link.LinkID, link.ShortURL, link.LinkName,
			req.Purpose, req.RecipientName, req.CustomerEmail, link.Amount))
	}

	resp := toLinkResponse(link)
	return &resp, nil
}

func (s *Service) ListLinks(ctx context.Context) (*LinkListResponse, error) {
	start := time.Now()
	page, err := s.gateway.FetchPaymentLinks(ctx)
	events.RecordOperation(ctx, s.bus, paytm.OpFetchPaymentLinks, "", time.Since(start), err)
	if err != nil {
		s.logger.Error("list links failed", "error", err)
		return nil, err
	}

	resp := &LinkListResponse{
		Links:    make([]LinkResponse, 0, len(page.Links)),
		NextPage: page.NextPage,
	}
	for i := range page.Links {
		resp.Links = append(resp.Links, toLinkResponse(&page.Links[i]))
	}
	return resp, nil
}

func (s *Service) ListLinkTransactions(ctx context.Context, linkID string) (*TransactionListResponse, error) {
	start := time.Now()
	txns, err := s.gateway.FetchLinkTransactions(ctx, linkID)
	events.RecordOperation(ctx, s.bus, paytm.OpFetchLinkTransactions, linkID, time.Since(start), err)
	if err != nil {
		s.logger.Error("list link transactions failed", "link_id", linkID, "error", err)
		return nil, err
	}

	resp := &TransactionListResponse{
		LinkID:       linkID,
		Transactions: make([]TransactionResponse, 0, len(txns)),
	}
	for _, t := range txns {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	return resp, nil
}
