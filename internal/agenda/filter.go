package agenda

import "strings"

// Filter narrows appointments to the selected practitioners and a
// case-insensitive patient-name substring query. Pure and idempotent; the
// caller re-runs it whenever selection, query or the fetched set changes.
func Filter(appointments []Appointment, selected map[string]bool, query string) []Appointment {
	q := strings.ToLower(query)
	out := make([]Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if !selected[apt.PractitionerID] {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(apt.Patient), q) {
			continue
		}
		out = append(out, apt)
	}
	return out
}
