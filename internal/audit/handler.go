package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/merchantops/paytm-gateway/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	Service *Service
	Logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: *transport.NewBaseHandler(logger),
		Service:     service,
		Logger:      logger,
	}
}

// ListByOperation handles GET /api/v1/audit/operations
func (h *Handler) ListByOperation(w http.ResponseWriter, r *http.Request) {
	operation := r.URL.Query().Get("operation")
	if operation == "" {
		h.WriteError(w, http.StatusBadRequest, "operation query parameter is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.Service.RecentByOperation(operation, limit)
	if err != nil {
		h.Logger.Error("failed to list audit entries", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": logs})
}

// ListByReference handles GET /api/v1/audit/references/{reference}
func (h *Handler) ListByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		h.WriteError(w, http.StatusBadRequest, "reference is required")
		return
	}

	logs, err := h.Service.ByReference(reference)
	if err != nil {
		h.Logger.Error("failed to list audit entries", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": logs})
}
