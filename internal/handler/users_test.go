package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bridgekit/bridgekit/internal/auth"
	"github.com/bridgekit/bridgekit/internal/handler/dto"
	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedRequest(method, target string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := auth.ContextWithCaller(req.Context(), &model.Caller{UserID: userID})
	return req.WithContext(ctx)
}

type fakeReportBuilder struct {
	reports      []model.UserReport
	err          error
	requestingID string
}

func (f *fakeReportBuilder) BuildUserReport(ctx context.Context, requestingID string) ([]model.UserReport, error) {
	f.requestingID = requestingID
	if f.err != nil {
		return nil, f.err
	}
	return f.reports, nil
}

func TestUsersList(t *testing.T) {
	t.Parallel()

	builder := &fakeReportBuilder{reports: []model.UserReport{
		{UserID: "u1", Username: "alice", PostsCreated: 2, UserHasPremium: false},
		{UserID: "u2", Username: "bob", PostsCreated: 0, UserHasPremium: true},
	}}
	h := NewUsersHandler(builder, discardLogger())

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/users", nil, "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if builder.requestingID != "u1" {
		t.Errorf("requesting id = %q, want u1", builder.requestingID)
	}

	var resp dto.UserReportListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("data = %d entries, want 2", len(resp.Data))
	}
	if resp.Data[1] != builder.reports[1] {
		t.Errorf("data[1] = %+v, want %+v", resp.Data[1], builder.reports[1])
	}
}

func TestUsersList_ServiceFailureIsGeneric(t *testing.T) {
	t.Parallel()

	h := NewUsersHandler(&fakeReportBuilder{err: service.ErrServer}, discardLogger())

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/users", nil, "u1"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "server error" || resp.Code != "SERVER_ERROR" {
		t.Errorf("body = %+v, want the generic server error", resp)
	}
}
