package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/authority"
	"github.com/xelth-com/ecksvcgo/internal/models"
)

// RepairStore is the slice of the record store the reconciler needs
type RepairStore interface {
	// TrackableRepairs returns all repairs with a confirmation reference and
	// no completion timestamp. Each candidate is visited at most once per pass.
	TrackableRepairs(ctx context.Context) ([]models.Repair, error)
	SaveRepair(ctx context.Context, r *models.Repair) error
}

// Session is one authenticated remote-authority conversation about a single
// confirmation reference. Closed after every repair regardless of outcome.
type Session interface {
	FetchDetails(ctx context.Context) (*authority.RepairDetail, error)
	Close() error
}

// Authority opens sessions with the remote warranty authority
type Authority interface {
	Connect(ctx context.Context, confirmation string) (Session, error)
}

// NewRemoteAuthority adapts the XML-RPC client to the Authority interface
func NewRemoteAuthority(c *authority.Client) Authority {
	return remoteAuthority{c}
}

type remoteAuthority struct {
	c *authority.Client
}

func (a remoteAuthority) Connect(ctx context.Context, confirmation string) (Session, error) {
	s, err := a.c.Connect(ctx, confirmation)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Reconciler keeps local repair records consistent with the remote authority.
// It holds no state between invocations; crashing mid-pass and rerunning is
// safe because unsynchronized candidates stay trackable.
type Reconciler struct {
	store     RepairStore
	authority Authority
	now       func() time.Time
}

// NewReconciler creates a repair reconciler
func NewReconciler(store RepairStore, auth Authority) *Reconciler {
	return &Reconciler{
		store:     store,
		authority: auth,
		now:       time.Now,
	}
}

// ReconcileOpenRepairs sweeps every trackable repair once: connect to the
// authority, fetch the authoritative detail, merge, persist. Any per-record
// failure is classified and recorded without stopping the sweep; retry
// happens naturally on the next invocation. Only a store failure at selection
// time fails the whole pass. Cancellation is honored between records: the
// current record finishes, the rest are skipped and the partial report
// returned.
func (rc *Reconciler) ReconcileOpenRepairs(ctx context.Context) (*Report, error) {
	report := NewReport(PassReconcile)

	repairs, err := rc.store.TrackableRepairs(ctx)
	if err != nil {
		report.finish()
		return report, fmt.Errorf("failed to select trackable repairs: %w", err)
	}

	for i := range repairs {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		rc.reconcileOne(ctx, &repairs[i], report)
	}

	report.finish()
	return report, nil
}

func (rc *Reconciler) reconcileOne(ctx context.Context, repair *models.Repair, report *Report) {
	report.Attempted++

	session, err := rc.authority.Connect(ctx, repair.Confirmation)
	if err != nil {
		report.fail(repair.ID, repair.Confirmation, FailureRemoteUnreachable, err)
		return
	}
	defer session.Close()

	detail, err := session.FetchDetails(ctx)
	if err != nil {
		report.fail(repair.ID, repair.Confirmation, classifyFetchError(err), err)
		return
	}

	before := *repair
	*repair = authority.ApplyDetails(*repair, detail, rc.now())

	if err := rc.store.SaveRepair(ctx, repair); err != nil {
		report.fail(repair.ID, repair.Confirmation, FailureLocalPersist, err)
		return
	}

	report.Succeeded++
	if detailChanged(before, *repair) {
		report.Changed++
	}
}

// classifyFetchError separates a fetch that timed out (remote-unreachable,
// same as a hard connection failure) from one the authority answered and
// rejected.
func classifyFetchError(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureRemoteUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureRemoteUnreachable
	}
	return FailureRemoteRejected
}

// detailChanged compares the authority-tracked fields, ignoring the
// LastCheckedAt bump every successful sync performs.
func detailChanged(a, b models.Repair) bool {
	return a.RepairStatus != b.RepairStatus ||
		a.CoverageStatus != b.CoverageStatus ||
		a.EligibleForReplacement != b.EligibleForReplacement ||
		a.AuthorityNotes != b.AuthorityNotes
}
