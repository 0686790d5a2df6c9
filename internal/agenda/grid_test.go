package agenda

import (
	"testing"
	"time"
)

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 68 {
		t.Fatalf("expected 68 slots, got %d", len(slots))
	}
	if slots[0] != "07:00" {
		t.Errorf("first slot: %q", slots[0])
	}
	if slots[len(slots)-1] != "23:45" {
		t.Errorf("last slot: %q", slots[len(slots)-1])
	}
	seen := make(map[string]bool, len(slots))
	for i, s := range slots {
		if seen[s] {
			t.Errorf("duplicate slot %q", s)
		}
		seen[s] = true
		if i > 0 && !(slots[i-1] < s) {
			t.Errorf("slots not ordered at %d: %q >= %q", i, slots[i-1], s)
		}
	}
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		start    string
		duration int
		want     string
	}{
		{"09:00", 30, "09:30"},
		{"09:45", 15, "10:00"},
		{"09:00", 60, "10:00"},
		{"23:45", 15, "24:00"},
		// No midnight wrap: the overflow is preserved, see EndTime doc.
		{"23:50", 30, "24:20"},
		{"07:00", 0, "07:00"},
	}
	for _, tt := range tests {
		if got := EndTime(tt.start, tt.duration); got != tt.want {
			t.Errorf("EndTime(%q, %d) = %q, want %q", tt.start, tt.duration, got, tt.want)
		}
	}
}

func TestEndTime_ExceedsStartWithinDay(t *testing.T) {
	// For clean durations without day overflow, the end is lexicographically
	// after the start.
	for _, start := range TimeSlots() {
		for _, dur := range []int{15, 30, 45, 60} {
			end := EndTime(start, dur)
			if end <= start {
				t.Fatalf("EndTime(%q, %d) = %q not after start", start, dur, end)
			}
		}
	}
}

func TestEndTime_Malformed(t *testing.T) {
	if got := EndTime("bogus", 30); got != "bogus" {
		t.Errorf("malformed start should be returned unchanged, got %q", got)
	}
}

func TestVisualHeight(t *testing.T) {
	if got := VisualHeight(15); got != 56 {
		t.Errorf("VisualHeight(15) = %d, want 56", got)
	}
	if got := VisualHeight(30); got != 116 {
		t.Errorf("VisualHeight(30) = %d, want 116", got)
	}
	if got := VisualHeight(60); got != 236 {
		t.Errorf("VisualHeight(60) = %d, want 236", got)
	}
}

func TestTimeIndicatorPosition(t *testing.T) {
	day := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)
	if _, ok := TimeIndicatorPosition(day.Add(7 * time.Hour)); ok {
		t.Error("indicator should be hidden before 08:00")
	}
	if _, ok := TimeIndicatorPosition(day.Add(18 * time.Hour)); ok {
		t.Error("indicator should be hidden from 18:00")
	}
	px, ok := TimeIndicatorPosition(day.Add(9*time.Hour + 30*time.Minute))
	if !ok {
		t.Fatal("indicator should be visible at 09:30")
	}
	if px != 360 {
		t.Errorf("position at 09:30 = %d, want 360", px)
	}
}
