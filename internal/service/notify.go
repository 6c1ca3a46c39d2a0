package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bridgekit/bridgekit/internal/gateway"
	"github.com/bridgekit/bridgekit/internal/identity"
	"github.com/bridgekit/bridgekit/internal/metrics"
	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

// emptyMessage replaces a blank message body.
const emptyMessage = "Empty Message"

// NotifyService orchestrates the guarded notification-send flow.
type NotifyService struct {
	identities identity.Provider
	gateway    gateway.Sender
	reporter   telemetry.Reporter
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewNotifyService creates a NotifyService.
func NewNotifyService(
	identities identity.Provider,
	sender gateway.Sender,
	reporter telemetry.Reporter,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *NotifyService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NotifyService{
		identities: identities,
		gateway:    sender,
		reporter:   reporter,
		logger:     logger.With("component", "service.notify"),
		metrics:    recorder,
	}
}

// SendNotification sends a push message from the requesting identity to
// the recipient. Every failure mode is recorded in detail internally and
// surfaces to the caller as the one generic ErrServer: the failure cause
// is deliberately not distinguishable over the boundary.
func (s *NotifyService) SendNotification(ctx context.Context, requestingID, recipientID, message string) error {
	s.reporter.Emit(telemetry.Event{
		Kind:         telemetry.KindInfo,
		ID:           "send_notification_to",
		Source:       telemetry.SourceNotif,
		ActingUserID: requestingID,
	})

	if requestingID == "" {
		s.fail("", recipientID, "User Not Logged In")
		return ErrServer
	}
	if recipientID == "" {
		s.fail(requestingID, "", "No Receiver UserID provided")
		return ErrServer
	}

	// Best-effort: the raw id is an acceptable sender name if the
	// provider lookup fails.
	senderName := requestingID
	if sender, err := s.identities.GetByID(ctx, requestingID); err == nil {
		if sender.DisplayName != "" {
			senderName = sender.DisplayName
		}
	} else {
		s.logger.Warn("could not resolve sender display name",
			"requesting_id", requestingID,
			"error", err,
		)
	}

	if message == "" {
		message = emptyMessage
	}

	notification := model.Notification{
		Title:   "Message from " + senderName,
		Message: message,
		Data: &model.InAppPresentation{
			Symbol:  "bolt.fill",
			Color:   "#ae0000",
			Size:    model.InAppSizeCompact,
			Haptics: model.InAppHapticsError,
		},
	}

	if err := s.gateway.Dispatch(ctx, recipientID, notification); err != nil {
		s.logger.Error("notification dispatch failed",
			"requesting_id", requestingID,
			"recipient_id", recipientID,
			"error", err,
		)
		s.fail(requestingID, recipientID,
			fmt.Sprintf("Error sending notification to %s from %s: %v", recipientID, requestingID, err))
		return ErrServer
	}

	s.metrics.IncNotificationDispatched("success")
	s.reporter.Emit(telemetry.Event{
		Kind:            telemetry.KindSuccess,
		ID:              "send_notification_to",
		Source:          telemetry.SourceNotif,
		LongDescription: fmt.Sprintf("Sent notification to %s from %s", recipientID, requestingID),
		ActingUserID:    requestingID,
	})
	return nil
}

// fail records a dispatch failure internally. The caller returns the
// generic server error separately.
func (s *NotifyService) fail(requestingID, recipientID, description string) {
	s.logger.Warn("notification rejected",
		"requesting_id", requestingID,
		"recipient_id", recipientID,
		"reason", description,
	)
	s.metrics.IncNotificationDispatched("failed")
	s.reporter.Emit(telemetry.Event{
		Kind:            telemetry.KindError,
		ID:              "send_notification_to",
		Source:          telemetry.SourceNotif,
		LongDescription: description,
		ActingUserID:    requestingID,
	})
}
