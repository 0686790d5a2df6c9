package agenda

import "strings"

// DefaultColor is used when an appointment type has no entry in the taxonomy.
const DefaultColor = "#3B82F6"

// typeColors maps the appointment-type taxonomy to display colors.
var typeColors = map[string]string{
	"extraction":   "#EC4899",
	"obturation":   "#06B6D4",
	"endo":         "#059669",
	"prothese":     "#3B82F6",
	"couronne":     "#DC2626",
	"dpsi":         "#6B7280",
	"implant":      "#10B981",
	"annulation":   "#84CC16",
	"purge":        "#EAB308",
	"urgence":      "#EF4444",
	"bilan":        "#F59E0B",
	"retard":       "#9CA3AF",
	"nouveau":      "#FBBF24",
	"gouttiere":    "#22C55E",
	"reevaluation": "#94A3B8",
	"diagnostic":   "#CBD5E1",
	"clincheck":    "#F472B6",
	"radio":        "#0EA5E9",
}

// ColorForType returns the display color for an appointment type,
// falling back to DefaultColor for unknown types.
func ColorForType(agendaType string) string {
	if c, ok := typeColors[strings.ToLower(agendaType)]; ok {
		return c
	}
	return DefaultColor
}

// practitionerPalette is cycled by list index when building the
// practitioner directory.
var practitionerPalette = []string{
	"#EC4899", "#FBBF24", "#10B981", "#A855F7",
	"#06B6D4", "#059669", "#3B82F6", "#DC2626",
}

// PractitionerColor returns the palette color for the practitioner at the
// given list index.
func PractitionerColor(index int) string {
	return practitionerPalette[index%len(practitionerPalette)]
}
