package agenda

import (
	"fmt"
	"time"
)

// Reschedule returns a copy of apt moved to targetSlot in the given
// practitioner's column on day: the new start is day's date at the slot's
// wall time, the new end keeps the original duration. The whole record is
// returned because persistence is a full-row update; the caller issues the
// update and re-fetches the day (no optimistic local patch).
func Reschedule(apt Appointment, day time.Time, targetSlot, targetPractitionerID string) (Appointment, error) {
	hours, minutes, ok := parseHHMM(targetSlot)
	if !ok {
		return Appointment{}, fmt.Errorf("invalid slot %q", targetSlot)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, day.Location())
	end := start.Add(time.Duration(apt.Duration) * time.Minute)

	apt.Time = targetSlot
	apt.PractitionerID = targetPractitionerID
	apt.StartDateTime = start.Format(time.RFC3339)
	apt.EndDateTime = end.Format(time.RFC3339)
	return apt, nil
}
