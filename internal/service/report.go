package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bridgekit/bridgekit/internal/docstore"
	"github.com/bridgekit/bridgekit/internal/entitlement"
	"github.com/bridgekit/bridgekit/internal/identity"
	"github.com/bridgekit/bridgekit/internal/metrics"
	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

// DefaultEntitlementWorkers bounds concurrent entitlement checks so a
// large identity listing does not overwhelm the subscription oracle.
const DefaultEntitlementWorkers = 8

// ReportService builds the enriched per-user report by joining the
// identity listing, document counts and entitlement state.
type ReportService struct {
	identities   identity.Provider
	docs         docstore.Reader
	entitlements entitlement.Checker
	reporter     telemetry.Reporter
	logger       *slog.Logger
	metrics      metrics.Recorder
	collection   string
	workers      int
}

// NewReportService creates a ReportService reading documents from the
// given collection.
func NewReportService(
	identities identity.Provider,
	docs docstore.Reader,
	entitlements entitlement.Checker,
	reporter telemetry.Reporter,
	logger *slog.Logger,
	recorder metrics.Recorder,
	collection string,
	workers int,
) *ReportService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if workers <= 0 {
		workers = DefaultEntitlementWorkers
	}
	return &ReportService{
		identities:   identities,
		docs:         docs,
		entitlements: entitlements,
		reporter:     reporter,
		logger:       logger.With("component", "service.report"),
		metrics:      recorder,
		collection:   collection,
		workers:      workers,
	}
}

// BuildUserReport returns one report per identity in the provider's full
// listing, in listing order. Entitlement-check failures degrade to "no
// premium" inside the check; any other failure is reported internally
// and surfaces as ErrServer.
func (s *ReportService) BuildUserReport(ctx context.Context, requestingID string) ([]model.UserReport, error) {
	start := time.Now()

	s.reporter.Emit(telemetry.Event{
		Kind:         telemetry.KindInfo,
		ID:           "fetch_all_users",
		Source:       telemetry.SourceDB,
		ActingUserID: requestingID,
	})

	reports, err := s.build(ctx)
	if err != nil {
		s.logger.Error("failed to build user report",
			"requesting_id", requestingID,
			"error", err,
		)
		s.metrics.IncReportBuilt("failed")
		s.reporter.Emit(telemetry.Event{
			Kind:            telemetry.KindError,
			ID:              "fetch_all_users",
			Source:          telemetry.SourceDB,
			LongDescription: fmt.Sprintf("Error fetching all users: %v", err),
			ActingUserID:    requestingID,
		})
		return nil, ErrServer
	}

	s.metrics.IncReportBuilt("success")
	s.metrics.ObserveReportDuration(time.Since(start))
	s.metrics.ObserveReportSize(len(reports))
	s.reporter.Emit(telemetry.Event{
		Kind:         telemetry.KindSuccess,
		ID:           "fetch_all_users",
		Source:       telemetry.SourceDB,
		ActingUserID: requestingID,
	})

	return reports, nil
}

func (s *ReportService) build(ctx context.Context) ([]model.UserReport, error) {
	identities, err := s.identities.ListAll(ctx)
	if err != nil {
		s.metrics.IncUpstreamError("identity")
		return nil, fmt.Errorf("list identities: %w", err)
	}

	reports := make([]model.UserReport, len(identities))
	for i, id := range identities {
		reports[i] = model.UserReport{
			UserID:   id.ID,
			Username: id.Username(),
		}
	}

	// One snapshot for the whole report instead of a query per user.
	docs, err := s.docs.GetAllInCollection(ctx, s.collection)
	if err != nil {
		s.metrics.IncUpstreamError("docstore")
		return nil, fmt.Errorf("fetch %s collection: %w", s.collection, err)
	}

	counts := make(map[string]int, len(reports))
	for _, doc := range docs {
		counts[doc.OwnerID]++
	}
	for i := range reports {
		reports[i].PostsCreated = counts[reports[i].UserID]
	}

	// Each goroutine writes only its own report entry.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range reports {
		i := i
		g.Go(func() error {
			reports[i].UserHasPremium = s.entitlements.HasActiveEntitlement(gctx, reports[i].UserID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check entitlements: %w", err)
	}

	return reports, nil
}
