package agenda

import "time"

// Status is the derived display status of an appointment. It is a closed set;
// StatusUrgent is never derived from data and exists only as a manually
// selectable label in the appointment dialog.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusUrgent    Status = "urgent"
)

// Valid reports whether s is one of the closed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted, StatusUrgent:
		return true
	}
	return false
}

// Label returns the French display label for s.
func (s Status) Label() string {
	switch s {
	case StatusConfirmed:
		return "Confirmé"
	case StatusPending:
		return "En attente"
	case StatusCancelled:
		return "Annulé"
	case StatusCompleted:
		return "Terminé"
	case StatusUrgent:
		return "Urgent"
	}
	return string(s)
}

// DeriveStatus computes the display status from the cancellation flag and the
// start time relative to now. Cancellation always wins, whatever the time.
// cancelReason is carried for parity with the stored row but does not affect
// the result.
func DeriveStatus(cancelled bool, cancelReason string, start, now time.Time) Status {
	if cancelled {
		return StatusCancelled
	}
	if start.Before(now) {
		return StatusCompleted
	}
	if sameDay(start, now) {
		return StatusConfirmed
	}
	return StatusPending
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
