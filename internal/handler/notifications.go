package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bridgekit/bridgekit/internal/auth"
	"github.com/bridgekit/bridgekit/internal/handler/dto"
)

// NotificationSender dispatches a push message between identities.
type NotificationSender interface {
	SendNotification(ctx context.Context, requestingID, recipientID, message string) error
}

// NotificationsHandler serves the notification dispatch endpoint.
type NotificationsHandler struct {
	sender NotificationSender
	logger *slog.Logger
}

// NewNotificationsHandler creates a new NotificationsHandler.
func NewNotificationsHandler(sender NotificationSender, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		sender: sender,
		logger: logger.With("handler", "notifications"),
	}
}

// Send handles POST /api/v1/notifications.
// The requester is the authenticated caller; the body names the recipient.
func (h *NotificationsHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	requestingID := auth.UserIDFromContext(r.Context())

	if err := h.sender.SendNotification(r.Context(), requestingID, req.UserID, req.Message); err != nil {
		// All internal causes collapse to the one generic error.
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, dto.SendNotificationResponse{Success: true})
}
