package models

import "time"

// Queue groups service orders by workflow (e.g. workshop, warranty, pickup)
type Queue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Queue model
func (Queue) TableName() string {
	return "queues"
}

// Status is one step in an order workflow. A status either belongs to a
// single queue (QueueID set) or is global (QueueID nil) and valid everywhere.
type Status struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	QueueID   *uint     `gorm:"index" json:"queue_id,omitempty"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Status model
func (Status) TableName() string {
	return "statuses"
}

// ValidStatusesForQueue returns the set of status IDs an order in the given
// queue may take: statuses bound to that queue plus global ones. Status
// updates are validated against this set.
func ValidStatusesForQueue(queueID uint, statuses []Status) map[uint]struct{} {
	valid := make(map[uint]struct{})
	for _, s := range statuses {
		if s.QueueID == nil || *s.QueueID == queueID {
			valid[s.ID] = struct{}{}
		}
	}
	return valid
}
