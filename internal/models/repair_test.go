package models

import (
	"testing"
	"time"
)

func TestIsTrackable(t *testing.T) {
	done := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		repair Repair
		want   bool
	}{
		{"submitted and open", Repair{Confirmation: "CASE-1"}, true},
		{"not yet submitted", Repair{}, false},
		{"completed", Repair{Confirmation: "CASE-1", CompletedAt: &done}, false},
		{"completed without confirmation", Repair{CompletedAt: &done}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.repair.IsTrackable(); got != tt.want {
				t.Errorf("IsTrackable() = %v, want %v", got, tt.want)
			}
		})
	}
}
