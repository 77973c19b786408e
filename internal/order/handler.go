package order

import (
	"log/slog"
	"net/http"
	"strconv"

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

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &ListRequest{
		FromDate:      q.Get("from_date"),
		ToDate:        q.Get("to_date"),
		TimeRangeDays: queryInt(q.Get("time_range_days")),
		SearchType:    q.Get("search_type"),
		SearchStatus:  q.Get("search_status"),
		PageNumber:    queryInt(q.Get("page_number")),
		PageSize:      queryInt(q.Get("page_size")),
	}

	resp, err := h.Service.List(r.Context(), req)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func queryInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
