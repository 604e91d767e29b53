package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/models"
)

// HistoryStore persists one row per pass invocation
type HistoryStore interface {
	RecordPassRun(ctx context.Context, run *models.PassRun) error
}

// Notifier pushes finished pass reports to connected dashboards
type Notifier interface {
	BroadcastReport(report *Report)
}

// Invalidator clears listing caches whose source data a pass rewrote
type Invalidator interface {
	Clear(ctx context.Context, region string) (int64, error)
}

// Service runs the maintenance passes on a schedule. Sweeps never overlap:
// a single goroutine runs them in order (reconcile first so the recompute
// pass sees fresh repair data, normalizers last).
type Service struct {
	reconciler *Reconciler
	recomputer *Recomputer
	tags       *TagNormalizer
	codes      *CodeNormalizer
	history    HistoryStore
	notifier   Notifier
	caches     Invalidator
	interval   time.Duration
	stop       chan struct{}
}

// NewService wires the four passes into a scheduled service. notifier and
// caches may be nil.
func NewService(reconciler *Reconciler, recomputer *Recomputer, tags *TagNormalizer, codes *CodeNormalizer, history HistoryStore, notifier Notifier, caches Invalidator, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Service{
		reconciler: reconciler,
		recomputer: recomputer,
		tags:       tags,
		codes:      codes,
		history:    history,
		notifier:   notifier,
		caches:     caches,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// Start begins the background sweep loop
func (s *Service) Start() {
	go func() {
		log.Println("📡 Reconciliation service started")

		// Initial sweep delay
		time.Sleep(5 * time.Second)
		s.RunAll(context.Background())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunAll(context.Background())
			case <-s.stop:
				log.Println("🛑 Reconciliation service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *Service) Stop() {
	close(s.stop)
}

// RunAll runs every pass once, in order
func (s *Service) RunAll(ctx context.Context) {
	log.Println("🔄 Starting full maintenance sweep...")

	for _, pass := range []string{PassReconcile, PassCaches, PassTags, PassCodes, PassPhantoms} {
		if ctx.Err() != nil {
			log.Println("⚠️ Sweep cancelled")
			return
		}
		if _, err := s.RunPass(ctx, pass); err != nil {
			log.Printf("❌ Pass %s failed: %v", pass, err)
		}
	}

	log.Println("✅ Full maintenance sweep completed")
}

// RunPass runs a single named pass, records its report in pass history,
// notifies dashboards and invalidates the affected cache regions. The report
// is returned even when the pass failed at selection time.
func (s *Service) RunPass(ctx context.Context, pass string) (*Report, error) {
	var (
		report  *Report
		regions []string
		err     error
	)

	switch pass {
	case PassReconcile:
		report, err = s.reconciler.ReconcileOpenRepairs(ctx)
		regions = []string{cache.RegionRepairs, cache.RegionDashboard}
	case PassCaches:
		report, err = s.recomputer.RefillEmptyCaches(ctx)
		regions = []string{cache.RegionOrders, cache.RegionDashboard}
	case PassTags:
		report, err = s.tags.NormalizeUnslugged(ctx)
	case PassCodes:
		report, err = s.codes.NormalizeAll(ctx)
		regions = []string{cache.RegionOrders}
	case PassPhantoms:
		report, err = s.recomputer.PurgePhantomOrders(ctx)
		regions = []string{cache.RegionOrders, cache.RegionDashboard}
	default:
		return nil, fmt.Errorf("unknown pass %q", pass)
	}

	if report != nil {
		s.recordRun(report, err)
		if err == nil {
			log.Printf("✅ Pass %s: attempted=%d succeeded=%d changed=%d failed=%d",
				report.Pass, report.Attempted, report.Succeeded, report.Changed, report.Failed())
			if s.notifier != nil {
				s.notifier.BroadcastReport(report)
			}
			if s.caches != nil && report.Changed > 0 {
				for _, region := range regions {
					if _, cerr := s.caches.Clear(ctx, region); cerr != nil {
						log.Printf("⚠️ Failed to clear cache region %s: %v", region, cerr)
					}
				}
			}
		}
	}

	return report, err
}

// recordRun maps a report onto a pass_runs row. History failures are logged
// and swallowed; losing a history row must not fail a pass that already ran.
func (s *Service) recordRun(report *Report, passErr error) {
	if s.history == nil {
		return
	}

	status := report.Status()
	if passErr != nil {
		status = "error"
	}

	run := &models.PassRun{
		RunID:       report.RunID,
		Pass:        report.Pass,
		Status:      status,
		StartedAt:   report.StartedAt,
		CompletedAt: &report.CompletedAt,
		Duration:    int(report.Duration().Milliseconds()),
		Attempted:   report.Attempted,
		Succeeded:   report.Succeeded,
		Changed:     report.Changed,
		Failed:      report.Failed(),
		Cancelled:   report.Cancelled,
	}
	if len(report.Failures) > 0 {
		if detail, err := json.Marshal(report.Failures); err == nil {
			run.FailureDetail = detail
		}
	}

	// History writes get their own context so a cancelled pass still records
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.history.RecordPassRun(ctx, run); err != nil {
		log.Printf("⚠️ Failed to record pass run %s: %v", report.Pass, err)
	}
}
