// Package entitlement provides the subscription oracle client.
package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bridgekit/bridgekit/internal/metrics"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

// PremiumEntitlement is the entitlement key that grants the paid tier.
const PremiumEntitlement = "Premium Access"

// Checker answers whether an identity currently holds an active entitlement.
type Checker interface {
	// HasActiveEntitlement never errors: unknown subscribers and oracle
	// failures both degrade to false.
	HasActiveEntitlement(ctx context.Context, identityID string) bool
}

// Client queries the subscription oracle's subscriber endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	reporter   telemetry.Reporter
	logger     *slog.Logger
	metrics    metrics.Recorder
	now        func() time.Time
}

// NewClient creates a subscription oracle client.
func NewClient(httpClient *http.Client, baseURL, apiKey string, reporter telemetry.Reporter, logger *slog.Logger, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		reporter:   reporter,
		logger:     logger.With("component", "entitlement.client"),
		metrics:    recorder,
		now:        time.Now,
	}
}

// subscriberResponse is the oracle's wire format, reduced to the fields
// the check consumes.
type subscriberResponse struct {
	Subscriber struct {
		Entitlements map[string]struct {
			ExpiresDate string `json:"expires_date"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

// HasActiveEntitlement reports whether the identity holds a premium
// entitlement expiring strictly in the future. A missing subscriber
// record (HTTP 404) is a normal negative result. Any other failure is
// logged and reported, then degrades to false: callers never observe
// an error from this check.
func (c *Client) HasActiveEntitlement(ctx context.Context, identityID string) bool {
	c.reporter.Emit(telemetry.Event{
		Kind:            telemetry.KindInfo,
		ID:              "check_if_user_has_premium",
		Source:          telemetry.SourceIAP,
		LongDescription: "UserID: " + identityID,
	})

	active := c.check(ctx, identityID)
	if active {
		c.metrics.IncEntitlementCheck("active")
	} else {
		c.metrics.IncEntitlementCheck("inactive")
	}
	return active
}

func (c *Client) check(ctx context.Context, identityID string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/subscribers/"+url.PathEscape(identityID), nil)
	if err != nil {
		c.reportFailure(identityID, fmt.Errorf("build subscriber request: %w", err))
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.reportFailure(identityID, fmt.Errorf("get subscriber: %w", err))
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// Absent subscriber is a normal "no premium" result, not a failure.
	// Detection is by HTTP status code, not an error string.
	if resp.StatusCode == http.StatusNotFound {
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.reportFailure(identityID, fmt.Errorf("get subscriber: status %d", resp.StatusCode))
		return false
	}

	var body subscriberResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.reportFailure(identityID, fmt.Errorf("decode subscriber: %w", err))
		return false
	}

	record, ok := body.Subscriber.Entitlements[PremiumEntitlement]
	if !ok || record.ExpiresDate == "" {
		return false
	}

	expiresAt, err := time.Parse(time.RFC3339, record.ExpiresDate)
	if err != nil {
		c.logger.Warn("unparsable entitlement expiry",
			"identity_id", identityID,
			"expires_date", record.ExpiresDate,
		)
		return false
	}

	return expiresAt.After(c.now())
}

// reportFailure logs an oracle failure and emits the error event. The
// caller still resolves to false; the failure never propagates.
func (c *Client) reportFailure(identityID string, err error) {
	c.logger.Error("subscription check failed",
		"identity_id", identityID,
		"error", err,
	)
	c.metrics.IncUpstreamError("oracle")
	c.reporter.Emit(telemetry.Event{
		Kind:            telemetry.KindError,
		ID:              "oracle_sub_check",
		Source:          telemetry.SourceIAP,
		LongDescription: fmt.Sprintf("Error checking subscription status: %v", err),
	})
}
