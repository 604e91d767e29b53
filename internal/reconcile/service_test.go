package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/xelth-com/ecksvcgo/internal/authority"
	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/models"
)

type fakeHistory struct {
	runs []models.PassRun
	err  error
}

func (h *fakeHistory) RecordPassRun(ctx context.Context, run *models.PassRun) error {
	if h.err != nil {
		return h.err
	}
	h.runs = append(h.runs, *run)
	return nil
}

type fakeNotifier struct {
	reports []*Report
}

func (n *fakeNotifier) BroadcastReport(report *Report) {
	n.reports = append(n.reports, report)
}

type fakeInvalidator struct {
	cleared []string
}

func (i *fakeInvalidator) Clear(ctx context.Context, region string) (int64, error) {
	i.cleared = append(i.cleared, region)
	return 1, nil
}

func newTestService(history *fakeHistory, notifier Notifier, inv Invalidator) (*Service, *fakeRepairStore) {
	repairStore := &fakeRepairStore{
		repairs: []models.Repair{{ID: 1, Confirmation: "CASE-1"}},
	}
	auth := &fakeAuthority{
		details: map[string]*authority.RepairDetail{"CASE-1": {Status: "done"}},
	}
	orderStore := &fakeOrderStore{}
	tagStore := &fakeTagStore{}
	codeStore := &fakeCodeStore{}

	return NewService(
		newTestReconciler(repairStore, auth),
		NewRecomputer(orderStore),
		NewTagNormalizer(tagStore),
		NewCodeNormalizer(codeStore),
		history,
		notifier,
		inv,
		0,
	), repairStore
}

func TestRunPassRecordsHistoryAndNotifies(t *testing.T) {
	history := &fakeHistory{}
	notifier := &fakeNotifier{}
	inv := &fakeInvalidator{}
	service, _ := newTestService(history, notifier, inv)

	report, err := service.RunPass(context.Background(), PassReconcile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Pass != PassReconcile {
		t.Errorf("report.Pass = %q, want %q", report.Pass, PassReconcile)
	}

	if len(history.runs) != 1 {
		t.Fatalf("recorded %d pass runs, want 1", len(history.runs))
	}
	run := history.runs[0]
	if run.Pass != PassReconcile || run.Status != "success" || run.Attempted != 1 || run.Changed != 1 {
		t.Errorf("recorded run = %+v, want success with one changed record", run)
	}
	if run.RunID != report.RunID {
		t.Errorf("run.RunID = %q, want the report's %q", run.RunID, report.RunID)
	}

	if len(notifier.reports) != 1 {
		t.Errorf("broadcast %d reports, want 1", len(notifier.reports))
	}

	// The pass changed records, so its cache regions get cleared
	want := map[string]bool{cache.RegionRepairs: true, cache.RegionDashboard: true}
	if len(inv.cleared) != 2 || !want[inv.cleared[0]] || !want[inv.cleared[1]] {
		t.Errorf("cleared regions = %v, want repairs and dashboard", inv.cleared)
	}
}

func TestRunPassNoChangesSkipsInvalidation(t *testing.T) {
	history := &fakeHistory{}
	inv := &fakeInvalidator{}
	service, _ := newTestService(history, nil, inv)

	// The caches pass has nothing to refill here
	if _, err := service.RunPass(context.Background(), PassCaches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.cleared) != 0 {
		t.Errorf("cleared regions = %v, want none when nothing changed", inv.cleared)
	}
}

func TestRunPassUnknownPass(t *testing.T) {
	service, _ := newTestService(&fakeHistory{}, nil, nil)

	if _, err := service.RunPass(context.Background(), "defragment"); err == nil {
		t.Fatal("expected an error for an unknown pass name")
	}
}

func TestRunPassHistoryFailureSwallowed(t *testing.T) {
	history := &fakeHistory{err: errors.New("pq: connection refused")}
	service, _ := newTestService(history, nil, nil)

	if _, err := service.RunPass(context.Background(), PassReconcile); err != nil {
		t.Fatalf("a failed history write must not fail the pass: %v", err)
	}
}

func TestRunPassSelectionFailureRecordedAsError(t *testing.T) {
	history := &fakeHistory{}
	service, repairStore := newTestService(history, nil, nil)
	repairStore.selectErr = errors.New("pq: connection refused")

	report, err := service.RunPass(context.Background(), PassReconcile)
	if err == nil {
		t.Fatal("expected the selection failure to surface")
	}
	if report == nil {
		t.Fatal("partial report must still be returned")
	}
	if len(history.runs) != 1 || history.runs[0].Status != "error" {
		t.Errorf("history = %+v, want one run with status error", history.runs)
	}
}
