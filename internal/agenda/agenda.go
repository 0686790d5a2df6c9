// Package agenda implements the day-grid scheduling model of the practice
// agenda: the fixed 15-minute time grid, placement of appointments into
// practitioner columns, display-status derivation, client-side filtering and
// the fetch/reschedule controller. Everything here is pure state management;
// persistence is behind the Service interface.
package agenda

// Appointment is the display projection of an agenda row, as served by
// GET /api/appointments. StartDateTime/EndDateTime are the authoritative
// timestamps; Time and Duration are derived for the grid.
type Appointment struct {
	ID               int    `json:"id"`
	Time             string `json:"time"` // wall clock "HH:MM"
	Duration         int    `json:"duration"` // minutes
	Patient          string `json:"patient"`
	PractitionerID   string `json:"practitionerId"`
	Type             string `json:"type"`
	Color            string `json:"color"`
	Notes            string `json:"notes"`
	HasPhone         bool   `json:"hasPhone"`
	HasDocument      bool   `json:"hasDocument"`
	Status           Status `json:"status"`
	StartDateTime    string `json:"startDateTime,omitempty"`
	EndDateTime      string `json:"endDateTime,omitempty"`
	PatientID        int    `json:"patientId,omitempty"`
	PractitionerName string `json:"practitionerName,omitempty"`
	PractitionerCode string `json:"practitionerCode,omitempty"`
	CancelReason     string `json:"cancelReason,omitempty"`
}

// Practitioner is a care-provider column in the schedule grid.
// Color is cycled from the fixed palette by list index, so it is not stable
// across reloads if the ordering changes.
type Practitioner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Initials  string `json:"initials"`
	Color     string `json:"color"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// UnknownPatient is the display fallback when an agenda row has no patient.
const UnknownPatient = "Patient inconnu"
