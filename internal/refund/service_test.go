package refund_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/merchantops/paytm-gateway/internal"
	datamodel "github.com/merchantops/paytm-gateway/internal/core/datamodel/paytm"
	"github.com/merchantops/paytm-gateway/internal/core/events"
	"github.com/merchantops/paytm-gateway/internal/paytm"
	"github.com/merchantops/paytm-gateway/internal/refund"
)

func TestRefundService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Refund Service Suite")
}

type mockGateway struct {
	initiateCalls int
	refund        *datamodel.Refund
	initiateError error
	statusRefund  *datamodel.Refund
	statusError   error
	lastListQuery *paytm.RefundListQuery
	listPage      *paytm.RefundListPage
	listError     error
}

func (m *mockGateway) InitiateRefund(ctx context.Context, req *paytm.RefundRequest) (*datamodel.Refund, error) {
	m.initiateCalls++
	if m.initiateError != nil {
		return nil, m.initiateError
	}
	return m.refund, nil
}

func (m *mockGateway) FetchRefundStatus(ctx context.Context, orderID, refID string) (*datamodel.Refund, error) {
	if m.statusError != nil {
		return nil, m.statusError
	}
	return m.statusRefund, nil
}

func (m *mockGateway) FetchRefundList(ctx context.Context, q *paytm.RefundListQuery) (*paytm.RefundListPage, error) {
	m.lastListQuery = q
	if m.listError != nil {
		return nil, m.listError
	}
	return m.listPage, nil
}

var _ = Describe("RefundService", func() {
	var (
		gateway *mockGateway
		bus     *events.EventBus
		service *refund.Service
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		gateway = &mockGateway{}
		bus = events.NewEventBus(logger)
		service = refund.NewService(gateway, bus, logger)
	})

	Describe("Initiate", func() {
		validRequest := func() *refund.InitiateRequest {
			return &refund.InitiateRequest{
				OrderID:      "O1",
				TxnID:        "T1",
				RefID:        "ref-1",
				RefundAmount: 100,
			}
		}

		BeforeEach(func() {
			gateway.refund = &datamodel.Refund{
				RefundID:     "R1",
				OrderID:      "O1",
				RefID:        "ref-1",
				RefundAmount: "100.00",
				Status:       datamodel.RefundStatusPending,
			}
		})

		It("initiates a refund and returns the pending state", func() {
			resp, err := service.Initiate(context.Background(), validRequest())

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.RefundID).To(Equal("R1"))
			Expect(resp.Status).To(Equal("PENDING"))
		})

		It("rejects a zero amount before calling the gateway", func() {
			req := validRequest()
			req.RefundAmount = 0

			_, err := service.Initiate(context.Background(), req)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidAmount))
			Expect(gateway.initiateCalls).To(BeZero())
		})

		It("rejects a ref id over the gateway limit", func() {
			req := validRequest()
			req.RefID = strings.Repeat("r", 51)

			_, err := service.Initiate(context.Background(), req)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(gateway.initiateCalls).To(BeZero())
		})

		It("publishes a refund initiated event", func() {
			received := make(chan *events.RefundInitiatedEvent, 1)
			bus.Subscribe(events.EventTypeRefundInitiated, func(ctx context.Context, event events.Event) error {
				received <- event.(*events.RefundInitiatedEvent)
				return nil
			})

			_, err := service.Initiate(context.Background(), validRequest())
			Expect(err).NotTo(HaveOccurred())

			var initiated *events.RefundInitiatedEvent
			Eventually(received).Should(Receive(&initiated))
			Expect(initiated.RefundID).To(Equal("R1"))
			Expect(initiated.Status).To(Equal("PENDING"))
		})
	})

	Describe("Status", func() {
		It("returns the refund state reported by the gateway", func() {
			gateway.statusRefund = &datamodel.Refund{
				RefundID: "R1",
				OrderID:  "O1",
				RefID:    "ref-1",
				Status:   datamodel.RefundStatusSuccess,
			}

			resp, err := service.Status(context.Background(), "O1", "ref-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("SUCCESS"))
		})

		It("passes not-found through unchanged", func() {
			gateway.statusError = apperrors.NewNotFoundError("referenced entity not found at gateway",
				apperrors.ErrCodeRefundNotFound, "619")

			_, err := service.Status(context.Background(), "O1", "ref-missing")

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeRefundNotFound))
			Expect(appErr.GatewayCode).To(Equal("619"))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			gateway.listPage = &paytm.RefundListPage{Count: 0, PageNum: 1, PageSize: 50}
		})

		It("derives the date window from time_range_days when dates are absent", func() {
			_, err := service.List(context.Background(), &refund.ListRequest{TimeRangeDays: 10, IsSort: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.lastListQuery.StartDate).NotTo(BeEmpty())
			Expect(gateway.lastListQuery.EndDate).NotTo(BeEmpty())
			Expect(gateway.lastListQuery.PageNum).To(Equal(1))
			Expect(gateway.lastListQuery.PageSize).To(Equal(50))
		})

		It("keeps explicit dates untouched", func() {
			_, err := service.List(context.Background(), &refund.ListRequest{
				StartDate: "2026-08-20T00:00:00+05:30",
				EndDate:   "2026-08-27T00:00:00+05:30",
				PageNum:   2,
				PageSize:  10,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.lastListQuery.StartDate).To(Equal("2026-08-20T00:00:00+05:30"))
			Expect(gateway.lastListQuery.PageNum).To(Equal(2))
			Expect(gateway.lastListQuery.PageSize).To(Equal(10))
		})
	})
})
