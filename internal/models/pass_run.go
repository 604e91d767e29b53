package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PassRun records one invocation of a maintenance pass (reconcile, cache
// refill, tag/code normalization, phantom purge) for operational monitoring
type PassRun struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID         string         `gorm:"type:uuid;index" json:"runId"`
	Pass          string         `gorm:"not null;index" json:"pass"`
	Status        string         `gorm:"not null;index" json:"status"` // "success", "partial", "error"
	StartedAt     time.Time      `gorm:"not null" json:"startedAt"`
	CompletedAt   *time.Time     `json:"completedAt"`
	Duration      int            `gorm:"default:0" json:"duration"`  // milliseconds
	Attempted     int            `gorm:"default:0" json:"attempted"` // candidates visited
	Succeeded     int            `gorm:"default:0" json:"succeeded"`
	Changed       int            `gorm:"default:0" json:"changed"` // rows actually rewritten
	Failed        int            `gorm:"default:0" json:"failed"`
	Cancelled     bool           `gorm:"default:false" json:"cancelled"`
	FailureDetail datatypes.JSON `gorm:"type:jsonb" json:"failureDetail"` // per-record classified failures
	CreatedAt     time.Time      `json:"-"`
	UpdatedAt     time.Time      `json:"-"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (PassRun) TableName() string {
	return "pass_runs"
}
