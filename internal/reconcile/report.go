package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Pass names as persisted in pass_runs and accepted by the admin trigger API.
const (
	PassReconcile = "reconcile_repairs"
	PassCaches    = "refill_caches"
	PassTags      = "normalize_tags"
	PassCodes     = "normalize_codes"
	PassPhantoms  = "purge_phantom_orders"
)

// FailureClass classifies a per-record failure (see error taxonomy)
type FailureClass string

const (
	// FailureRemoteUnreachable covers transport, timeout and auth failures
	// reaching the remote authority. Retried implicitly next pass.
	FailureRemoteUnreachable FailureClass = "remote_unreachable"
	// FailureRemoteRejected covers sessions that were open but rejected the
	// confirmation or returned a malformed payload.
	FailureRemoteRejected FailureClass = "remote_rejected"
	// FailureLocalPersist covers record-store write failures.
	FailureLocalPersist FailureClass = "local_persist"
	// FailureNormalization covers records a normalization pass could not
	// safely transform.
	FailureNormalization FailureClass = "normalization"
)

// Failure is one classified per-record failure inside a pass
type Failure struct {
	RecordID  uint         `json:"record_id"`
	Reference string       `json:"reference,omitempty"`
	Class     FailureClass `json:"class"`
	Detail    string       `json:"detail"`
}

// Report accumulates the outcome of one best-effort pass. No per-record
// error escapes a pass; everything lands here.
type Report struct {
	Pass        string    `json:"pass"`
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Attempted   int       `json:"attempted"`
	Succeeded   int       `json:"succeeded"`
	Changed     int       `json:"changed"`
	Failures    []Failure `json:"failures,omitempty"`
	Cancelled   bool      `json:"cancelled"`
}

// NewReport starts a report for the named pass
func NewReport(pass string) *Report {
	return &Report{
		Pass:      pass,
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) fail(recordID uint, reference string, class FailureClass, err error) {
	r.Failures = append(r.Failures, Failure{
		RecordID:  recordID,
		Reference: reference,
		Class:     class,
		Detail:    err.Error(),
	})
}

func (r *Report) finish() {
	r.CompletedAt = time.Now().UTC()
}

// Failed returns the number of classified per-record failures
func (r *Report) Failed() int {
	return len(r.Failures)
}

// CountByClass returns how many failures fall into the given class
func (r *Report) CountByClass(class FailureClass) int {
	n := 0
	for _, f := range r.Failures {
		if f.Class == class {
			n++
		}
	}
	return n
}

// Status maps the report onto the pass_runs status column
func (r *Report) Status() string {
	switch {
	case r.Failed() == 0:
		return "success"
	case r.Succeeded == 0 && r.Attempted > 0:
		return "error"
	default:
		return "partial"
	}
}

// Duration of the pass in wall time
func (r *Report) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
