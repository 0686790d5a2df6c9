package agenda

import (
	"testing"
	"time"
)

func TestReschedule(t *testing.T) {
	day := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)
	apt := Appointment{
		ID: 12, Time: "09:00", Duration: 45,
		PractitionerID: "ah", Patient: "Marie Dupont",
		Type: "obturation", Notes: "contrôle",
	}

	moved, err := Reschedule(apt, day, "14:30", "jv")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.Time != "14:30" || moved.PractitionerID != "jv" {
		t.Errorf("slot/practitioner not applied: %+v", moved)
	}
	start, err := time.Parse(time.RFC3339, moved.StartDateTime)
	if err != nil {
		t.Fatalf("start not RFC3339: %v", err)
	}
	end, err := time.Parse(time.RFC3339, moved.EndDateTime)
	if err != nil {
		t.Fatalf("end not RFC3339: %v", err)
	}
	if start.Hour() != 14 || start.Minute() != 30 {
		t.Errorf("start = %v", start)
	}
	if got := end.Sub(start); got != 45*time.Minute {
		t.Errorf("duration preserved: %v", got)
	}
	// Full record: unrelated fields must survive the move.
	if moved.Patient != "Marie Dupont" || moved.Type != "obturation" || moved.Notes != "contrôle" {
		t.Errorf("record fields lost: %+v", moved)
	}
}

func TestReschedule_InvalidSlot(t *testing.T) {
	day := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)
	if _, err := Reschedule(Appointment{ID: 1, Duration: 30}, day, "not-a-slot", "ah"); err == nil {
		t.Error("expected error for invalid slot")
	}
}
