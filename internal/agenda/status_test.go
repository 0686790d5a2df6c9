package agenda

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2023, 3, 17, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cancelled bool
		now       time.Time
		want      Status
	}{
		{"same day, future", false, time.Date(2023, 3, 17, 8, 0, 0, 0, time.UTC), StatusConfirmed},
		{"past", false, time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC), StatusCompleted},
		{"future, other day", false, time.Date(2023, 3, 16, 8, 0, 0, 0, time.UTC), StatusPending},
		{"cancelled wins over future", true, time.Date(2023, 3, 17, 8, 0, 0, 0, time.UTC), StatusCancelled},
		{"cancelled wins over past", true, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.cancelled, "motif", start, tt.now); got != tt.want {
				t.Errorf("DeriveStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted, StatusUrgent} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("late").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusCancelled.Label() != "Annulé" {
		t.Errorf("label: %q", StatusCancelled.Label())
	}
	if Status("xyz").Label() != "xyz" {
		t.Error("unknown status label should pass through")
	}
}
