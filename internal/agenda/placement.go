package agenda

// Spans reports whether apt occupies the given grid slot: it started at or
// before the slot and ends after it. Comparisons are lexicographic on
// "HH:MM" labels, which orders correctly within a day (and pushes "24:xx"
// overflow end times past every slot, matching the stored behavior).
func Spans(apt Appointment, slot string) bool {
	return apt.Time <= slot && EndTime(apt.Time, apt.Duration) > slot
}

// StartsAt reports whether apt is anchored at the given slot. Only the
// starting slot draws the visual block; spanned slots below it stay empty
// and are covered by the block's absolute height.
func StartsAt(apt Appointment, slot string) bool {
	return apt.Time == slot
}

// SlotAppointment returns the appointment to render at (slot, practitioner).
// When several appointments share the same starting slot and practitioner,
// the lowest id wins so the choice is deterministic across fetches.
func SlotAppointment(appointments []Appointment, slot, practitionerID string) (Appointment, bool) {
	var best Appointment
	found := false
	for _, apt := range appointments {
		if apt.PractitionerID != practitionerID || !StartsAt(apt, slot) {
			continue
		}
		if !found || apt.ID < best.ID {
			best = apt
			found = true
		}
	}
	return best, found
}

// SlotOccupied reports whether any appointment of the practitioner spans the
// slot, anchored there or not.
func SlotOccupied(appointments []Appointment, slot, practitionerID string) bool {
	for _, apt := range appointments {
		if apt.PractitionerID == practitionerID && Spans(apt, slot) {
			return true
		}
	}
	return false
}
