package authority

import (
	"errors"
	"testing"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/models"
)

func TestApplyDetailsOverwritesTrackedFields(t *testing.T) {
	repair := models.Repair{
		ID:                     7,
		Confirmation:           "CONF123",
		RepairStatus:           "In Repair",
		CoverageStatus:         "Pending",
		EligibleForReplacement: false,
		AuthorityNotes:         "old note",
	}
	detail := &RepairDetail{
		Status:                 "Completed",
		CoverageStatus:         "In Warranty",
		EligibleForReplacement: true,
		Notes:                  "unit replaced",
	}
	checkedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	updated := ApplyDetails(repair, detail, checkedAt)

	if updated.RepairStatus != "Completed" {
		t.Errorf("RepairStatus = %q, want %q", updated.RepairStatus, "Completed")
	}
	if updated.CoverageStatus != "In Warranty" {
		t.Errorf("CoverageStatus = %q, want %q", updated.CoverageStatus, "In Warranty")
	}
	if !updated.EligibleForReplacement {
		t.Error("EligibleForReplacement = false, want true")
	}
	if updated.AuthorityNotes != "unit replaced" {
		t.Errorf("AuthorityNotes = %q, want %q", updated.AuthorityNotes, "unit replaced")
	}
	if updated.LastCheckedAt == nil || !updated.LastCheckedAt.Equal(checkedAt) {
		t.Errorf("LastCheckedAt = %v, want %v", updated.LastCheckedAt, checkedAt)
	}

	// Identity fields stay untouched
	if updated.ID != repair.ID || updated.Confirmation != repair.Confirmation {
		t.Error("ApplyDetails must not touch identity fields")
	}
	if updated.CompletedAt != nil {
		t.Error("ApplyDetails must never complete a repair")
	}

	// Input is not mutated
	if repair.RepairStatus != "In Repair" {
		t.Error("ApplyDetails mutated its input")
	}
}

func TestApplyDetailsConverges(t *testing.T) {
	repair := models.Repair{ID: 1, Confirmation: "CONF1"}
	detail := &RepairDetail{Status: "Ready", CoverageStatus: "Out of Warranty"}
	at := time.Now()

	once := ApplyDetails(repair, detail, at)
	twice := ApplyDetails(once, detail, at)

	if once.RepairStatus != twice.RepairStatus ||
		once.CoverageStatus != twice.CoverageStatus ||
		once.EligibleForReplacement != twice.EligibleForReplacement ||
		once.AuthorityNotes != twice.AuthorityNotes {
		t.Error("repeated ApplyDetails with identical payload must converge")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	var err error = &ConnectError{Confirmation: "CONF1", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ConnectError should unwrap to its cause")
	}

	err = &FetchError{Confirmation: "CONF1", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
}
