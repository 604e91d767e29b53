package authority

import (
	"fmt"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/models"
)

// RepairDetail is the authoritative detail payload for one confirmation
// reference as reported by the remote warranty authority.
type RepairDetail struct {
	Status                 string `json:"status" xmlrpc:"status"`
	CoverageStatus         string `json:"coverage_status" xmlrpc:"coverage_status"`
	EligibleForReplacement bool   `json:"eligible_for_replacement" xmlrpc:"eligible_for_replacement"`
	Notes                  string `json:"notes" xmlrpc:"notes"`
}

// ApplyDetails merges an authoritative detail payload into the repair's
// tracked fields. The merge is a total overwrite of those fields, not an
// incremental patch, so repeated application converges. Pure: no I/O, the
// input repair is copied.
func ApplyDetails(r models.Repair, d *RepairDetail, checkedAt time.Time) models.Repair {
	r.RepairStatus = d.Status
	r.CoverageStatus = d.CoverageStatus
	r.EligibleForReplacement = d.EligibleForReplacement
	r.AuthorityNotes = d.Notes
	r.LastCheckedAt = &checkedAt
	return r
}

// ConnectError reports a failure to open an authenticated session
// (transport, timeout or auth). Maps to the remote-unreachable class.
type ConnectError struct {
	Confirmation string
	Err          error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("authority connect %q: %v", e.Confirmation, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// FetchError reports a session that was open but could not deliver a usable
// detail payload (unknown confirmation, malformed response). Maps to the
// remote-rejected class.
type FetchError struct {
	Confirmation string
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("authority fetch %q: %v", e.Confirmation, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
