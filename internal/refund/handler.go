package refund

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
	Logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: *transport.NewBaseHandler(logger),
		Service:     service,
		Logger:      logger,
	}
}

// Initiate handles POST /api/v1/refunds
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("Initiate: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	refund, err := h.Service.Initiate(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Logger.Info("Initiate: refund initiated", "order_id", refund.OrderID, "refund_id", refund.RefundID)
	h.WriteJSON(w, http.StatusAccepted, refund)
}

// Status handles GET /api/v1/refunds/status?order_id=...&ref_id=...
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	refID := r.URL.Query().Get("ref_id")

	refund, err := h.Service.Status(r.Context(), orderID, refID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, refund)
}

// List handles GET /api/v1/refunds
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		StartDate:     r.URL.Query().Get("start_date"),
		EndDate:       r.URL.Query().Get("end_date"),
		TimeRangeDays: queryInt(r, "time_range_days", 0),
		IsSort:        r.URL.Query().Get("is_sort") != "false",
		PageNum:       queryInt(r, "page_num", 1),
		PageSize:      queryInt(r, "page_size", 50),
	}

	refunds, err := h.Service.List(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, refunds)
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultVal
}
