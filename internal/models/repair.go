package models

import (
	"time"

	"gorm.io/gorm"
)

// Repair represents one unit of repair work tracked against the remote
// warranty authority.
//
// Lifecycle: created locally without a confirmation; once the case is
// submitted the authority assigns a confirmation reference and the repair
// becomes trackable. The reconciliation pass refreshes the authority-derived
// fields for every trackable repair. CompletedAt is terminal and is only ever
// set outside the reconciliation core (operator action or a completion signal
// consumed elsewhere).
type Repair struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Confirmation is the remote authority's case reference.
	// Empty means "not yet submitted".
	Confirmation string `gorm:"index" json:"confirmation"`

	OrderID  *uint `gorm:"index" json:"order_id,omitempty"`
	DeviceID *uint `gorm:"index" json:"device_id,omitempty"`

	// Authority-derived detail fields. Overwritten wholesale on every
	// successful reconciliation (total merge, not an incremental patch).
	RepairStatus           string     `json:"repair_status"`
	CoverageStatus         string     `json:"coverage_status"`
	EligibleForReplacement bool       `gorm:"default:false" json:"eligible_for_replacement"`
	AuthorityNotes         string     `gorm:"type:text" json:"authority_notes"`
	LastCheckedAt          *time.Time `json:"last_checked_at,omitempty"`

	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Order  *Order  `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Device *Device `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
}

// TableName specifies the table name for Repair model
func (Repair) TableName() string {
	return "repairs"
}

// IsTrackable reports whether the repair is open and has a confirmation,
// i.e. is eligible for reconciliation against the remote authority.
func (r *Repair) IsTrackable() bool {
	return r.Confirmation != "" && r.CompletedAt == nil
}
