// Package gateway provides the push-notification gateway client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bridgekit/bridgekit/internal/metrics"
	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

// ErrRecipientNotFound indicates the gateway has no registered channel
// for the recipient; no send is attempted.
var ErrRecipientNotFound = errors.New("recipient has no notification channel")

// Sender is the gateway contract consumed by the dispatch service.
type Sender interface {
	// ChannelExists never errors: gateway failures degrade to false.
	ChannelExists(ctx context.Context, identityID string) bool
	// Dispatch verifies the recipient's channel and sends the payload.
	// Returns ErrRecipientNotFound when the channel is absent; send
	// failures past that gate are swallowed (fire-and-forget).
	Dispatch(ctx context.Context, identityID string, notification model.Notification) error
}

// Client talks to the notification gateway's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	apiKey     string
	reporter   telemetry.Reporter
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewClient creates a notification gateway client.
func NewClient(httpClient *http.Client, baseURL, appID, apiKey string, reporter telemetry.Reporter, logger *slog.Logger, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appID:      appID,
		apiKey:     apiKey,
		reporter:   reporter,
		logger:     logger.With("component", "gateway.client"),
		metrics:    recorder,
	}
}

// ChannelExists reports whether the gateway has a delivery channel
// registered under the identity's external id. An absent channel (HTTP
// 404, by status code) is a normal false. Any other failure is logged
// and reported, then degrades to false.
func (c *Client) ChannelExists(ctx context.Context, identityID string) bool {
	path := fmt.Sprintf("/apps/%s/users/by/external_id/%s", url.PathEscape(c.appID), url.PathEscape(identityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.reportFailure("gateway_user_exist_check", fmt.Errorf("build channel lookup: %w", err))
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.reportFailure("gateway_user_exist_check", fmt.Errorf("channel lookup: %w", err))
		return false
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return true
	}
	if resp.StatusCode == http.StatusNotFound {
		return false
	}

	c.reportFailure("gateway_user_exist_check", fmt.Errorf("channel lookup: status %d", resp.StatusCode))
	return false
}

// notificationPayload is the gateway's send wire format.
type notificationPayload struct {
	AppID          string                   `json:"app_id"`
	TargetChannel  string                   `json:"target_channel"`
	IncludeAliases map[string][]string      `json:"include_aliases"`
	Contents       map[string]string        `json:"contents"`
	Headings       map[string]string        `json:"headings"`
	Data           *model.InAppPresentation `json:"data,omitempty"`
}

// Dispatch sends a push notification to the identity's channel. The
// channel must exist; otherwise ErrRecipientNotFound is returned and no
// send call is made. A rejected or failed send is logged and reported
// but not returned: delivery past the existence gate is fire-and-forget.
func (c *Client) Dispatch(ctx context.Context, identityID string, notification model.Notification) error {
	if !c.ChannelExists(ctx, identityID) {
		return ErrRecipientNotFound
	}

	payload := notificationPayload{
		AppID:          c.appID,
		TargetChannel:  "push",
		IncludeAliases: map[string][]string{"external_id": {identityID}},
		Contents:       map[string]string{"en": notification.Message},
		Headings:       map[string]string{"en": notification.Title},
		Data:           notification.Data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.reportFailure("gateway_send_notification", fmt.Errorf("marshal notification: %w", err))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		c.reportFailure("gateway_send_notification", fmt.Errorf("build send request: %w", err))
		return nil
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.reportFailure("gateway_send_notification", fmt.Errorf("send notification: %w", err))
		return nil
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.reportFailure("gateway_send_notification", fmt.Errorf("send notification: status %d", resp.StatusCode))
		return nil
	}

	c.logger.Debug("notification dispatched", "identity_id", identityID)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

// reportFailure logs a gateway failure and emits the error event.
func (c *Client) reportFailure(eventID string, err error) {
	c.logger.Error("gateway call failed", "error", err)
	c.metrics.IncUpstreamError("gateway")
	c.reporter.Emit(telemetry.Event{
		Kind:            telemetry.KindError,
		ID:              eventID,
		Source:          telemetry.SourceNotif,
		LongDescription: fmt.Sprintf("Error calling notification gateway: %v", err),
	})
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
