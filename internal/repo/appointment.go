package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Appointment is a stored agenda row joined with the patient and
// practitioner columns the display projection needs.
type Appointment struct {
	ID             int
	PatientID      *int
	PractitionerID string
	StartAt        time.Time
	EndAt          time.Time
	DurationMin    int
	Type           *string
	Notes          *string
	HasDocument    bool
	Cancelled      bool
	CancelReason   *string

	PatientFirstName *string `gorm:"column:patient_first_name"`
	PatientLastName  *string `gorm:"column:patient_last_name"`
	PatientPhone     *string `gorm:"column:patient_phone"`
	PatientEmail     *string `gorm:"column:patient_email"`
	PracFirstName    string  `gorm:"column:prac_first_name"`
	PracLastName     string  `gorm:"column:prac_last_name"`
}

// AppointmentQuery narrows ListAppointments. Day selects the window
// [day 00:30, day 23:30). PractitionerIDs empty means all. Status maps to
// the cancelled flag only.
type AppointmentQuery struct {
	Day             time.Time
	PractitionerIDs []string
	PatientSearch   string
	Status          string
}

// ListAppointments returns the day's non-deleted rows ordered by start time.
func ListAppointments(ctx context.Context, db *gorm.DB, q AppointmentQuery) ([]Appointment, error) {
	day := q.Day.Truncate(24 * time.Hour)
	from := day.Add(30 * time.Minute)
	to := day.Add(23*time.Hour + 30*time.Minute)

	sql := `
		SELECT a.id, a.patient_id, a.practitioner_id, a.start_at, a.end_at,
		       a.duration_min, a.type, a.notes, a.has_document,
		       a.cancelled, a.cancel_reason,
		       p.first_name AS patient_first_name, p.last_name AS patient_last_name,
		       p.phone AS patient_phone,
		       pr.first_name AS prac_first_name, pr.last_name AS prac_last_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.deleted = FALSE AND a.start_at >= ? AND a.start_at < ?
	`
	args := []interface{}{from, to}
	if len(q.PractitionerIDs) > 0 {
		sql += ` AND a.practitioner_id IN (?)`
		args = append(args, q.PractitionerIDs)
	}
	if q.PatientSearch != "" {
		sql += ` AND (p.first_name ILIKE ? OR p.last_name ILIKE ?)`
		pattern := "%" + q.PatientSearch + "%"
		args = append(args, pattern, pattern)
	}
	switch q.Status {
	case "":
	case "cancelled":
		sql += ` AND a.cancelled = TRUE`
	default:
		sql += ` AND a.cancelled = FALSE`
	}
	sql += ` ORDER BY a.start_at, a.id`

	var list []Appointment
	err := db.WithContext(ctx).Raw(sql, args...).Scan(&list).Error
	return list, err
}

func AppointmentByID(ctx context.Context, db *gorm.DB, id int) (*Appointment, error) {
	var a Appointment
	err := db.WithContext(ctx).Raw(`
		SELECT a.id, a.patient_id, a.practitioner_id, a.start_at, a.end_at,
		       a.duration_min, a.type, a.notes, a.has_document,
		       a.cancelled, a.cancel_reason,
		       p.first_name AS patient_first_name, p.last_name AS patient_last_name,
		       p.phone AS patient_phone,
		       pr.first_name AS prac_first_name, pr.last_name AS prac_last_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.id = ? AND a.deleted = FALSE
	`, id).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

// CreateAppointment inserts a full row and returns the server-assigned id.
func CreateAppointment(ctx context.Context, db *gorm.DB, a *Appointment) (int, error) {
	var res struct{ ID int }
	err := db.WithContext(ctx).Raw(`
		INSERT INTO appointments (patient_id, practitioner_id, start_at, end_at,
		                          duration_min, type, notes, has_document,
		                          cancelled, cancel_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, a.PatientID, a.PractitionerID, a.StartAt, a.EndAt,
		a.DurationMin, a.Type, a.Notes, a.HasDocument,
		a.Cancelled, a.CancelReason).Scan(&res).Error
	return res.ID, err
}

// UpdateAppointment replaces every mutable column (full-row update,
// last write wins).
func UpdateAppointment(ctx context.Context, db *gorm.DB, a *Appointment) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE appointments
		SET patient_id = ?, practitioner_id = ?, start_at = ?, end_at = ?,
		    duration_min = ?, type = ?, notes = ?, has_document = ?,
		    cancelled = ?, cancel_reason = ?, updated_at = now()
		WHERE id = ? AND deleted = FALSE
	`, a.PatientID, a.PractitionerID, a.StartAt, a.EndAt,
		a.DurationMin, a.Type, a.Notes, a.HasDocument,
		a.Cancelled, a.CancelReason, a.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteAppointment flips the deleted flag; the row stays for history.
func SoftDeleteAppointment(ctx context.Context, db *gorm.DB, id int) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE appointments SET deleted = TRUE, updated_at = now()
		WHERE id = ? AND deleted = FALSE
	`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppointmentsStartingOn returns non-cancelled rows whose start falls on the
// given calendar day, for the reminder run.
func AppointmentsStartingOn(ctx context.Context, db *gorm.DB, day time.Time) ([]Appointment, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)
	var list []Appointment
	err := db.WithContext(ctx).Raw(`
		SELECT a.id, a.patient_id, a.practitioner_id, a.start_at, a.end_at,
		       a.duration_min, a.type, a.notes, a.has_document,
		       a.cancelled, a.cancel_reason,
		       p.first_name AS patient_first_name, p.last_name AS patient_last_name,
		       p.phone AS patient_phone, p.email AS patient_email,
		       pr.first_name AS prac_first_name, pr.last_name AS prac_last_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.deleted = FALSE AND a.cancelled = FALSE
		  AND a.start_at >= ? AND a.start_at < ?
		ORDER BY a.start_at
	`, from, to).Scan(&list).Error
	return list, err
}
