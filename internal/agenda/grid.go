package agenda

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Grid rows cover 07:00 through 23:45 in 15-minute slots.
	GridStartHour = 7
	GridEndHour   = 24
	SlotMinutes   = 15

	// Pixel geometry of one slot row in the schedule grid.
	SlotHeightPx = 60
	SlotGapPx    = 4
)

// TimeSlots returns the ordered "HH:MM" labels of the day grid:
// 68 slots, "07:00" .. "23:45".
func TimeSlots() []string {
	slots := make([]string, 0, (GridEndHour-GridStartHour)*60/SlotMinutes)
	for hour := GridStartHour; hour < GridEndHour; hour++ {
		for minute := 0; minute < 60; minute += SlotMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// EndTime adds durationMin minutes to a "HH:MM" wall time. Hours are not
// wrapped at midnight: 23:50 + 30min yields "24:20". Whether such an
// appointment should bleed into the next day's grid or be rejected at
// creation is an open product question; until it is settled the overflow is
// kept as-is so placement comparisons stay consistent with stored data.
// A malformed start time is returned unchanged.
func EndTime(start string, durationMin int) string {
	hours, minutes, ok := parseHHMM(start)
	if !ok {
		return start
	}
	total := hours*60 + minutes + durationMin
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// VisualHeight returns the pixel height of an appointment block spanning
// durationMin minutes. Durations that are not a multiple of the slot size
// produce ragged heights; they are not rejected.
func VisualHeight(durationMin int) int {
	return durationMin / SlotMinutes * SlotHeightPx - SlotGapPx
}

// TimeIndicatorPosition returns the pixel offset of the "now" line.
// The indicator is only drawn during office hours (08:00-18:00); outside
// that window ok is false.
func TimeIndicatorPosition(now time.Time) (px int, ok bool) {
	hours, minutes := now.Hour(), now.Minute()
	if hours < 8 || hours >= 18 {
		return 0, false
	}
	totalMinutes := (hours-8)*60 + minutes
	return totalMinutes / SlotMinutes * SlotHeightPx, true
}

func parseHHMM(s string) (hours, minutes int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
