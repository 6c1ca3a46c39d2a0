// Package identity provides the identity provider client.
package identity

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

	"github.com/bridgekit/bridgekit/internal/model"
)

// Client errors.
var (
	// ErrNotFound indicates the provider has no record for the identity.
	ErrNotFound = errors.New("identity not found")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid identity token")
)

// Provider is the identity provider contract consumed by the services.
type Provider interface {
	// ListAll returns the provider's full identity listing, in provider order.
	ListAll(ctx context.Context) ([]model.Identity, error)
	// GetByID returns one identity, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Identity, error)
}

// TokenVerifier resolves bearer tokens to identities at the auth boundary.
type TokenVerifier interface {
	// VerifyToken returns the identity a token belongs to, or ErrInvalidToken.
	VerifyToken(ctx context.Context, token string) (*model.Identity, error)
}

// Client talks to the identity provider's admin REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates an identity provider client.
func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With("component", "identity.client"),
	}
}

// identityRecord is the provider's wire format for a single identity.
type identityRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (r identityRecord) toModel() model.Identity {
	return model.Identity{ID: r.ID, DisplayName: r.DisplayName}
}

// ListAll fetches the full identity listing.
func (c *Client) ListAll(ctx context.Context) ([]model.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/identities", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("list identities: status %d", resp.StatusCode)
	}

	var body struct {
		Identities []identityRecord `json:"identities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode identity listing: %w", err)
	}

	identities := make([]model.Identity, 0, len(body.Identities))
	for _, rec := range body.Identities {
		identities = append(identities, rec.toModel())
	}
	return identities, nil
}

// GetByID fetches a single identity. Returns ErrNotFound on 404.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/identities/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get identity: status %d", resp.StatusCode)
	}

	var rec identityRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	identity := rec.toModel()
	return &identity, nil
}

// VerifyToken resolves a caller's bearer token to an identity.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("marshal token payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/tokens/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("verify token: status %d", resp.StatusCode)
	}

	var rec identityRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode verified identity: %w", err)
	}
	identity := rec.toModel()
	return &identity, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
