package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

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

// CreateLink handles POST /api/v1/payment-links
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("CreateLink: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	link, err := h.Service.CreateLink(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.Logger.Info("CreateLink: payment link created", "link_id", link.LinkID)
	h.WriteJSON(w, http.StatusCreated, link)
}

// ListLinks handles GET /api/v1/payment-links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.Service.ListLinks(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, links)
}

// ListLinkTransactions handles GET /api/v1/payment-links/{linkID}/transactions
func (h *Handler) ListLinkTransactions(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	txns, err := h.Service.ListLinkTransactions(r.Context(), linkID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, txns)
}
