package agenda

import "testing"

func TestColorForType(t *testing.T) {
	if got := ColorForType("extraction"); got != "#EC4899" {
		t.Errorf("extraction: %q", got)
	}
	if got := ColorForType("Urgence"); got != "#EF4444" {
		t.Errorf("type lookup must be case-insensitive: %q", got)
	}
	if got := ColorForType("inconnu"); got != DefaultColor {
		t.Errorf("unknown type must fall back to default: %q", got)
	}
	if got := ColorForType(""); got != DefaultColor {
		t.Errorf("empty type must fall back to default: %q", got)
	}
}

func TestPractitionerColor_CyclesPalette(t *testing.T) {
	if PractitionerColor(0) != PractitionerColor(8) {
		t.Error("palette must cycle every 8 entries")
	}
	if PractitionerColor(1) == PractitionerColor(2) {
		t.Error("adjacent indexes must differ")
	}
}
