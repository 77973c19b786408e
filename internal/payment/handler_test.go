package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/payment"
)

type mockService struct {
	createResp  *payment.LinkResponse
	createError error
	listResp    *payment.LinkListResponse
	listError   error
	txnsResp    *payment.TransactionListResponse
	txnsError   error
}

func (m *mockService) CreateLink(ctx context.Context, req *payment.CreateLinkRequest) (*payment.LinkResponse, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	return m.createResp, nil
}

func (m *mockService) ListLinks(ctx context.Context) (*payment.LinkListResponse, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.listResp, nil
}

func (m *mockService) ListLinkTransactions(ctx context.Context, linkID string) (*payment.TransactionListResponse, error) {
	if m.txnsError != nil {
		return nil, m.txnsError
	}
	return m.txnsResp, nil
}

var _ = Describe("PaymentHandler", func() {
	var (
		svc     *mockService
		handler *payment.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = &mockService{}
		handler = payment.NewHandler(svc, logger)
	})

	Describe("CreateLink", func() {
		It("returns 201 with the created link", func() {
			svc.createResp = &payment.LinkResponse{LinkID: 12345, ShortURL: "https://p.paytm.me/xC/abc"}

			body := bytes.NewBufferString(`{"recipient_name":"Alice","purpose":"lunch","customer_email":"alice@example.com"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links", body)
			rec := httptest.NewRecorder()

			handler.CreateLink(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var resp payment.LinkResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.LinkID).To(Equal(int64(12345)))
		})

		It("returns 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links", bytes.NewBufferString("{not json"))
			rec := httptest.NewRecorder()

			handler.CreateLink(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps a validation error from the service onto 400", func() {
			svc.createError = apperrors.NewValidationError("either customer_email or customer_mobile must be provided",
				apperrors.ErrCodeMissingCustomerContact)

			body := bytes.NewBufferString(`{"recipient_name":"Alice","purpose":"lunch"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links", body)
			rec := httptest.NewRecorder()

			handler.CreateLink(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("MISSING_CUSTOMER_CONTACT"))
		})

		It("maps a gateway error onto 502", func() {
			svc.createError = apperrors.NewGatewayError("1006", "Invalid merchant")

			body := bytes.NewBufferString(`{"recipient_name":"Alice","purpose":"lunch","customer_email":"a@b.c"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-links", body)
			rec := httptest.NewRecorder()

			handler.CreateLink(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("ListLinks", func() {
		It("returns 200 with the page", func() {
			svc.listResp = &payment.LinkListResponse{Links: []payment.LinkResponse{{LinkID: 1}}}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-links", nil)
			rec := httptest.NewRecorder()

			handler.ListLinks(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("maps a network timeout onto 504", func() {
			svc.listError = apperrors.NewNetworkError("gateway request timed out", apperrors.ErrCodeRequestTimeout, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-links", nil)
			rec := httptest.NewRecorder()

			handler.ListLinks(rec, req)

			Expect(rec.Code).To(Equal(http.StatusGatewayTimeout))
		})
	})

	Describe("ListLinkTransactions", func() {
		routedRequest := func(linkID string) *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-links/"+linkID+"/transactions", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("linkID", linkID)
			return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		}

		It("returns 200 with the transactions", func() {
			svc.txnsResp = &payment.TransactionListResponse{LinkID: "12345"}

			rec := httptest.NewRecorder()
			handler.ListLinkTransactions(rec, routedRequest("12345"))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("maps not-found onto 404 preserving the gateway code", func() {
			svc.txnsError = apperrors.NewNotFoundError("payment link 99999 not found at gateway",
				apperrors.ErrCodeLinkNotFound, "404")

			rec := httptest.NewRecorder()
			handler.ListLinkTransactions(rec, routedRequest("99999"))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("LINK_NOT_FOUND"))
		})
	})
})
