package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bridgekit/bridgekit/internal/auth"
	"github.com/bridgekit/bridgekit/internal/handler/dto"
	"github.com/bridgekit/bridgekit/internal/model"
)

// ReportBuilder builds the enriched user report list.
type ReportBuilder interface {
	BuildUserReport(ctx context.Context, requestingID string) ([]model.UserReport, error)
}

// UsersHandler serves the enriched user report endpoint.
type UsersHandler struct {
	reports ReportBuilder
	logger  *slog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(reports ReportBuilder, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		reports: reports,
		logger:  logger.With("handler", "users"),
	}
}

// List handles GET /api/v1/users.
// Returns one enriched report per identity known to the identity provider.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	requestingID := auth.UserIDFromContext(r.Context())

	reports, err := h.reports.BuildUserReport(r.Context(), requestingID)
	if err != nil {
		// The service already logged and reported the cause.
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserReportListResponse{Data: reports})
}
