// Package seed loads demo data for local development: the practitioner
// directory, a handful of patients and a full agenda day. Running it twice
// is a no-op.
package seed

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/auth"
)

// demoDay is the agenda day the demo data populates.
var demoDay = time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)

func Run(ctx context.Context, db *gorm.DB) error {
	var n int
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM practitioners").Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[seed] practitioners already present, skipping")
		return nil
	}

	if err := db.WithContext(ctx).Exec(`
		INSERT INTO practitioners (id, first_name, last_name) VALUES
		('ah', 'Anne', 'Humblet'),
		('jv', 'Jean', 'Vermeulen'),
		('ml', 'Marie', 'Lejeune'),
		('pd', 'Pierre', 'Dubois')
	`).Error; err != nil {
		return err
	}

	type seedPatient struct {
		first, last, phone string
	}
	patients := []seedPatient{
		{"Marie", "Dupont", "+32470111222"},
		{"Jean", "Martin", "+32471333444"},
		{"Sophie", "Laurent", ""},
		{"Paul", "Petit", "+32472555666"},
		{"Emma", "Leroy", "+32473777888"},
	}
	patientIDs := make([]int, len(patients))
	for i, p := range patients {
		var res struct{ ID int }
		if err := db.WithContext(ctx).Raw(`
			INSERT INTO patients (first_name, last_name, phone)
			VALUES (?, ?, NULLIF(?, ''))
			RETURNING id
		`, p.first, p.last, p.phone).Scan(&res).Error; err != nil {
			return err
		}
		patientIDs[i] = res.ID
	}

	type seedAppointment struct {
		patient  int // index into patientIDs
		prac     string
		slot     string
		duration int
		aptType  string
		notes    string
	}
	appointments := []seedAppointment{
		{0, "ah", "09:00", 30, "extraction", "molaire 36"},
		{1, "ah", "10:30", 45, "endo", ""},
		{2, "jv", "09:15", 30, "bilan", "premier rendez-vous"},
		{3, "jv", "14:00", 60, "couronne", ""},
		{4, "ml", "11:00", 15, "radio", ""},
		{0, "pd", "15:30", 30, "obturation", "contrôle"},
	}
	for _, a := range appointments {
		start := atSlot(demoDay, a.slot)
		if err := db.WithContext(ctx).Exec(`
			INSERT INTO appointments (patient_id, practitioner_id, start_at, end_at,
			                          duration_min, type, notes)
			VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''))
		`, patientIDs[a.patient], a.prac, start, start.Add(time.Duration(a.duration)*time.Minute),
			a.duration, a.aptType, a.notes).Error; err != nil {
			return err
		}
	}

	// One cancelled row so the status taxonomy shows up in demos.
	start := atSlot(demoDay, "16:30")
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO appointments (patient_id, practitioner_id, start_at, end_at,
		                          duration_min, type, cancelled, cancel_reason)
		VALUES (?, 'ml', ?, ?, 30, 'dpsi', TRUE, 'patient absent')
	`, patientIDs[1], start, start.Add(30*time.Minute)).Error; err != nil {
		return err
	}

	// A small dental chart for the first patient.
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO tooth_records (patient_id, tooth_number, status, notes) VALUES
		(?, 19, 'treated', 'obturation 2022'),
		(?, 30, 'problem', 'carie détectée'),
		(?, 1, 'missing', NULL)
	`, patientIDs[0], patientIDs[0], patientIDs[0]).Error; err != nil {
		return err
	}

	hash, err := auth.HashPassword("ChangeMe123!")
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO users (id, email, password_hash, role, practitioner_id) VALUES
		(?, 'anne@dentadmin.local', ?, 'PRACTITIONER', 'ah'),
		(?, 'accueil@dentadmin.local', ?, 'ASSISTANT', NULL)
	`, uuid.New(), hash, uuid.New(), hash).Error; err != nil {
		return err
	}

	log.Printf("[seed] demo data loaded (day %s)", demoDay.Format("2006-01-02"))
	return nil
}

func atSlot(day time.Time, slot string) time.Time {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}
