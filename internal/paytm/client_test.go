package paytm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/checksum"
	"github.com/merchantops/paytm-gateway/internal/paytm"
)

func TestPaytmClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Paytm Client Suite")
}

const testKey = "0123456789abcdef"
const testMID = "TESTMID123"

type requestEnvelope struct {
	Head struct {
		TokenType string `json:"tokenType"`
		ChannelID string `json:"channelId"`
		Signature string `json:"signature"`
	} `json:"head"`
	Body json.RawMessage `json:"body"`
}

// signedEnvelope wraps a body in a response envelope carrying a valid
// signature over exactly those body bytes.
func signedEnvelope(body string) string {
	sig, err := checksum.Generate(body, testKey)
	Expect(err).NotTo(HaveOccurred())
	return fmt.Sprintf(`{"head":{"signature":%q},"body":%s}`, sig, body)
}

func newTestClient(baseURL string, timeout time.Duration) *paytm.Client {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return paytm.NewClient(paytm.Config{
		BaseURL:        baseURL,
		MID:            testMID,
		KeySecret:      testKey,
		RequestTimeout: timeout,
	}, logger)
}

func appErrorOf(err error) *apperrors.AppError {
	GinkgoHelper()
	Expect(err).To(HaveOccurred())
	appErr, ok := apperrors.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %T", err)
	return appErr
}

var _ = Describe("Client", func() {
	var (
		server       *httptest.Server
		requestCount int64
		respond      func(w http.ResponseWriter, r *http.Request)
	)

	BeforeEach(func() {
		atomic.StoreInt64(&requestCount, 0)
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&requestCount, 1)
			respond(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	validCreate := func() *paytm.CreateLinkRequest {
		amount := 450.0
		return &paytm.CreateLinkRequest{
			RecipientName: "Alice",
			Purpose:       "lunch",
			CustomerEmail: "alice@example.com",
			Amount:        &amount,
		}
	}

	Describe("CreatePaymentLink", func() {
		It("returns the created link on a signed success response", func() {
			body := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200","resultMsg":"created"},"linkId":12345,"linkName":"lunch_Alice","shortUrl":"https://p.paytm.me/xC/abc","status":"ACTIVE","amount":"450.00"}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			link, err := client.CreatePaymentLink(context.Background(), validCreate())

			Expect(err).NotTo(HaveOccurred())
			Expect(link.LinkID).To(Equal(int64(12345)))
			Expect(link.ShortURL).To(Equal("https://p.paytm.me/xC/abc"))
			Expect(string(link.Status)).To(Equal("ACTIVE"))
			Expect(link.Amount).To(Equal("450.00"))
		})

		It("signs the request body so the gateway can verify it", func() {
			var captured requestEnvelope
			body := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"linkId":1,"shortUrl":"u"}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&captured)).To(Succeed())
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.CreatePaymentLink(context.Background(), validCreate())
			Expect(err).NotTo(HaveOccurred())

			Expect(captured.Head.TokenType).To(Equal("AES"))
			Expect(captured.Head.Signature).NotTo(BeEmpty())
			Expect(checksum.Verify(string(captured.Body), testKey, captured.Head.Signature)).To(Succeed())
		})

		It("rejects an invalid request without touching the network", func() {
			client := newTestClient(server.URL, time.Second)

			_, err := client.CreatePaymentLink(context.Background(), &paytm.CreateLinkRequest{
				RecipientName: "Alice",
			})

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(atomic.LoadInt64(&requestCount)).To(BeZero())
		})

		It("rejects a non-positive amount without touching the network", func() {
			client := newTestClient(server.URL, time.Second)
			amount := -1.0
			req := validCreate()
			req.Amount = &amount

			_, err := client.CreatePaymentLink(context.Background(), req)

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidAmount))
			Expect(atomic.LoadInt64(&requestCount)).To(BeZero())
		})

		It("maps a gateway business failure onto a gateway error preserving the code", func() {
			body := `{"resultInfo":{"resultStatus":"FAILURE","resultCode":"1006","resultMsg":"Invalid merchant"},"linkId":0}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.CreatePaymentLink(context.Background(), validCreate())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeGateway))
			Expect(appErr.GatewayCode).To(Equal("1006"))
			Expect(appErr.GatewayMessage).To(Equal("Invalid merchant"))
		})
	})

	Describe("response verification", func() {
		It("rejects a response whose body was altered after signing", func() {
			intact := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"linkId":1}`
			sig, err := checksum.Generate(intact, testKey)
			Expect(err).NotTo(HaveOccurred())
			tampered := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"linkId":9}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"head":{"signature":%q},"body":%s}`, sig, tampered)
			}

			client := newTestClient(server.URL, time.Second)
			_, err = client.CreatePaymentLink(context.Background(), validCreate())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeAuthentication))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeSignatureMismatch))
		})

		It("rejects a response that carries no signature", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"head":{},"body":{"resultInfo":{"resultStatus":"SUCCESS"}}}`)
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchPaymentLinks(context.Background())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeAuthentication))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeSignatureMissing))
		})

		It("rejects a response that is not JSON at all", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html>gateway maintenance</html>")
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchPaymentLinks(context.Background())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeGateway))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeGatewayResponse))
		})

		It("maps a non-2xx status onto a gateway error", func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchPaymentLinks(context.Background())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeGateway))
			Expect(appErr.GatewayCode).To(Equal("HTTP_502"))
		})
	})

	Describe("FetchLinkTransactions", func() {
		It("rejects an empty link id before any network call", func() {
			client := newTestClient(server.URL, time.Second)

			_, err := client.FetchLinkTransactions(context.Background(), "  ")

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(atomic.LoadInt64(&requestCount)).To(BeZero())
		})

		It("maps a missing link onto a not-found error preserving the gateway code", func() {
			body := `{"resultInfo":{"resultStatus":"FAILURE","resultCode":"404","resultMsg":"Link not found"}}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchLinkTransactions(context.Background(), "99999")

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeNotFound))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeLinkNotFound))
			Expect(appErr.GatewayCode).To(Equal("404"))
		})

		It("attributes fetched transactions to the requested link", func() {
			body := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"orders":[{"txnId":"T1","orderId":"O1","txnAmount":"450.00","orderStatus":"TXN_SUCCESS"}]}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			txns, err := client.FetchLinkTransactions(context.Background(), "12345")

			Expect(err).NotTo(HaveOccurred())
			Expect(txns).To(HaveLen(1))
			Expect(txns[0].LinkID).To(Equal("12345"))
			Expect(string(txns[0].Status)).To(Equal("SUCCESS"))
		})
	})

	Describe("timeouts and transport failures", func() {
		It("maps an exceeded deadline onto a network timeout error", func() {
			release := make(chan struct{})
			defer close(release)
			respond = func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}

			client := newTestClient(server.URL, 50*time.Millisecond)
			_, err := client.FetchPaymentLinks(context.Background())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeNetwork))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeRequestTimeout))
		})

		It("maps a refused connection onto a network error", func() {
			dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			dead.Close()

			client := newTestClient(dead.URL, time.Second)
			_, err := client.FetchPaymentLinks(context.Background())

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeNetwork))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeConnectionFailed))
		})
	})

	Describe("concurrent use", func() {
		It("serves many parallel list calls off one client", func() {
			body := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"links":[{"linkId":1,"linkName":"a","shortUrl":"u","status":"ACTIVE"}]}`
			envelope := signedEnvelope(body)
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, envelope)
			}

			client := newTestClient(server.URL, 5*time.Second)

			const callers = 60
			var wg sync.WaitGroup
			errs := make([]error, callers)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					page, err := client.FetchPaymentLinks(context.Background())
					if err == nil && len(page.Links) != 1 {
						err = fmt.Errorf("unexpected page size %d", len(page.Links))
					}
					errs[i] = err
				}(i)
			}
			wg.Wait()

			for i := 0; i < callers; i++ {
				Expect(errs[i]).NotTo(HaveOccurred())
			}
			Expect(atomic.LoadInt64(&requestCount)).To(Equal(int64(callers)))
		})
	})

	Describe("refunds", func() {
		It("accepts a PENDING refund initiation", func() {
			body := `{"resultInfo":{"resultStatus":"PENDING","resultCode":"601","resultMsg":"Refund request raised"},"refundId":"R1","txnId":"T1","refundAmount":"100.00"}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			refund, err := client.InitiateRefund(context.Background(), &paytm.RefundRequest{
				OrderID:      "O1",
				TxnID:        "T1",
				RefID:        "ref-1",
				RefundAmount: 100,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(refund.RefundID).To(Equal("R1"))
			Expect(string(refund.Status)).To(Equal("PENDING"))
		})

		It("maps an unknown refund onto a not-found error", func() {
			body := `{"resultInfo":{"resultStatus":"FAILURE","resultCode":"619","resultMsg":"Refund not found for given refId"}}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchRefundStatus(context.Background(), "O1", "ref-missing")

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeNotFound))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeRefundNotFound))
			Expect(appErr.GatewayCode).To(Equal("619"))
		})

		It("fetches a refund list page from the passbook", func() {
			body := `{"status":"SUCCESS","count":1,"orders":[{"orderId":"O1","refundId":"R1","refId":"ref-1","txnAmount":"450.00","refundAmount":"100.00","status":"SUCCESS"}]}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			page, err := client.FetchRefundList(context.Background(), &paytm.RefundListQuery{
				StartDate: "2026-08-20T00:00:00+05:30",
				EndDate:   "2026-08-27T00:00:00+05:30",
				PageNum:   1,
				PageSize:  50,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(page.Count).To(Equal(1))
			Expect(page.Refunds).To(HaveLen(1))
		})

		It("maps a passbook failure status onto a gateway error", func() {
			body := `{"status":"FAILURE","errorMessage":"window too large"}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			_, err := client.FetchRefundList(context.Background(), &paytm.RefundListQuery{
				StartDate: "2026-08-20T00:00:00+05:30",
				EndDate:   "2026-08-27T00:00:00+05:30",
				PageNum:   1,
				PageSize:  50,
			})

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeGateway))
			Expect(appErr.GatewayMessage).To(Equal("window too large"))
		})
	})

	Describe("orders", func() {
		It("rejects a window larger than the passbook allows before any network call", func() {
			client := newTestClient(server.URL, time.Second)

			_, err := client.FetchOrderList(context.Background(), &paytm.OrderListQuery{
				FromDate:        "2026-01-01T00:00:00+05:30",
				ToDate:          "2026-08-01T00:00:00+05:30",
				OrderSearchType: "TRANSACTION",
				PageNumber:      1,
				PageSize:        50,
			})

			appErr := appErrorOf(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidDateRange))
			Expect(atomic.LoadInt64(&requestCount)).To(BeZero())
		})

		It("fetches one order page", func() {
			body := `{"resultInfo":{"resultStatus":"SUCCESS","resultCode":"200"},"orders":[{"orderId":"O1","txnId":"T1","amount":"450.00","status":"SUCCESS"}]}`
			respond = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, signedEnvelope(body))
			}

			client := newTestClient(server.URL, time.Second)
			page, err := client.FetchOrderList(context.Background(), &paytm.OrderListQuery{
				FromDate:        "2026-08-20T00:00:00+05:30",
				ToDate:          "2026-08-27T00:00:00+05:30",
				OrderSearchType: "TRANSACTION",
				PageNumber:      1,
				PageSize:        50,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(page.Orders).To(HaveLen(1))
			Expect(page.PageNumber).To(Equal(1))
		})
	})
})
