package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bridgekit/bridgekit/internal/identity"
	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/telemetry"
	"github.com/bridgekit/bridgekit/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProvider struct {
	identities []model.Identity
	listErr    error
	byIDErr    error
}

func (f *fakeProvider) ListAll(ctx context.Context) ([]model.Identity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.identities, nil
}

func (f *fakeProvider) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	for i := range f.identities {
		if f.identities[i].ID == id {
			return &f.identities[i], nil
		}
	}
	return nil, identity.ErrNotFound
}

type fakeDocReader struct {
	docs []model.Document
	err  error
}

func (f *fakeDocReader) GetAllInCollection(ctx context.Context, collection string) ([]model.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeChecker struct {
	premium map[string]bool
}

func (f *fakeChecker) HasActiveEntitlement(ctx context.Context, identityID string) bool {
	return f.premium[identityID]
}

func ownedDoc(id, ownerID string) model.Document {
	return model.Document{ID: id, Collection: "posts", OwnerID: ownerID, CreatedAt: time.Now()}
}

func TestBuildUserReport(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{identities: []model.Identity{
		{ID: "u1", DisplayName: "alice"},
		{ID: "u2", DisplayName: "bob"},
	}}
	docs := &fakeDocReader{docs: []model.Document{
		ownedDoc("d1", "u1"),
		ownedDoc("d2", "u1"),
		ownedDoc("d3", "u3"), // owner not in the listing
	}}
	checker := &fakeChecker{premium: map[string]bool{"u2": true}}
	reporter := &testutil.RecordingReporter{}

	svc := NewReportService(provider, docs, checker, reporter, discardLogger(), nil, "posts", 2)

	reports, err := svc.BuildUserReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("BuildUserReport: %v", err)
	}

	want := []model.UserReport{
		{UserID: "u1", Username: "alice", PostsCreated: 2, UserHasPremium: false},
		{UserID: "u2", Username: "bob", PostsCreated: 0, UserHasPremium: true},
	}
	if len(reports) != len(want) {
		t.Fatalf("reports = %d, want %d", len(reports), len(want))
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("reports[%d] = %+v, want %+v", i, reports[i], want[i])
		}
	}

	if got := reporter.CountKind(telemetry.KindInfo); got != 1 {
		t.Errorf("info events = %d, want 1", got)
	}
	if got := reporter.CountKind(telemetry.KindSuccess); got != 1 {
		t.Errorf("success events = %d, want 1", got)
	}
	if got := reporter.CountKind(telemetry.KindError); got != 0 {
		t.Errorf("error events = %d, want 0", got)
	}
}

func TestBuildUserReport_Idempotent(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{identities: []model.Identity{{ID: "u1", DisplayName: "alice"}}}
	docs := &fakeDocReader{docs: []model.Document{ownedDoc("d1", "u1")}}
	svc := NewReportService(provider, docs, &fakeChecker{}, &testutil.RecordingReporter{}, discardLogger(), nil, "posts", 0)

	first, err := svc.BuildUserReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := svc.BuildUserReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("repeat builds differ: %+v vs %+v", first, second)
	}
}

func TestBuildUserReport_MissingDisplayName(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{identities: []model.Identity{{ID: "u1"}}}
	svc := NewReportService(provider, &fakeDocReader{}, &fakeChecker{}, &testutil.RecordingReporter{}, discardLogger(), nil, "posts", 0)

	reports, err := svc.BuildUserReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("BuildUserReport: %v", err)
	}
	if reports[0].Username != model.NoDisplayName {
		t.Errorf("Username = %q, want %q", reports[0].Username, model.NoDisplayName)
	}
}

func TestBuildUserReport_EmptyListing(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeProvider{}, &fakeDocReader{}, &fakeChecker{}, &testutil.RecordingReporter{}, discardLogger(), nil, "posts", 0)

	reports, err := svc.BuildUserReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("BuildUserReport: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("reports = %d, want 0", len(reports))
	}
}

func TestBuildUserReport_UpstreamFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream down")

	tests := []struct {
		name     string
		provider *fakeProvider
		docs     *fakeDocReader
	}{
		{"identity listing fails", &fakeProvider{listErr: boom}, &fakeDocReader{}},
		{"document fetch fails", &fakeProvider{identities: []model.Identity{{ID: "u1"}}}, &fakeDocReader{err: boom}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reporter := &testutil.RecordingReporter{}
			svc := NewReportService(tt.provider, tt.docs, &fakeChecker{}, reporter, discardLogger(), nil, "posts", 0)

			_, err := svc.BuildUserReport(context.Background(), "u1")
			if !errors.Is(err, ErrServer) {
				t.Fatalf("error = %v, want ErrServer", err)
			}

			errs := reporter.ErrorsFromSource(telemetry.SourceDB)
			if len(errs) != 1 {
				t.Fatalf("db error events = %d, want 1", len(errs))
			}
			if errs[0].ID != "fetch_all_users" {
				t.Errorf("error event id = %q, want fetch_all_users", errs[0].ID)
			}
			if got := reporter.CountKind(telemetry.KindSuccess); got != 0 {
				t.Errorf("success events = %d, want 0", got)
			}
		})
	}
}
