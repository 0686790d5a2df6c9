package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ToothRecord is one tooth of a patient's dental chart (universal
// numbering, 1..32). Teeth without a row are implicitly healthy.
type ToothRecord struct {
	ID          int
	PatientID   int
	ToothNumber int
	Status      string
	Notes       *string
}

// ToothTreatment is one entry of a tooth's treatment history.
type ToothTreatment struct {
	ID          int
	PatientID   int
	ToothNumber int
	Treatment   string
	TreatedOn   *string
	Notes       *string
}

// Chart statuses.
const (
	ToothHealthy = "healthy"
	ToothTreated = "treated"
	ToothProblem = "problem"
	ToothMissing = "missing"
)

func ValidToothStatus(s string) bool {
	switch s {
	case ToothHealthy, ToothTreated, ToothProblem, ToothMissing:
		return true
	}
	return false
}

func ListToothRecords(ctx context.Context, db *gorm.DB, patientID int) ([]ToothRecord, error) {
	var list []ToothRecord
	err := db.WithContext(ctx).Raw(`
		SELECT id, patient_id, tooth_number, status, notes
		FROM tooth_records
		WHERE patient_id = ?
		ORDER BY tooth_number
	`, patientID).Scan(&list).Error
	return list, err
}

// UpsertToothRecords replaces the chart rows sent by the client in one
// statement per batch (ON CONFLICT on the patient+tooth key).
func UpsertToothRecords(ctx context.Context, db *gorm.DB, patientID int, records []ToothRecord) error {
	if len(records) == 0 {
		return nil
	}
	const cols = 4 // patient_id, tooth_number, status, notes
	args := make([]interface{}, 0, len(records)*cols)
	placeholders := make([]string, 0, len(records))
	for i, r := range records {
		args = append(args, patientID, r.ToothNumber, r.Status, r.Notes)
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)", i*cols+1, i*cols+2, i*cols+3, i*cols+4))
	}
	query := `INSERT INTO tooth_records (patient_id, tooth_number, status, notes) VALUES ` +
		strings.Join(placeholders, ", ") +
		` ON CONFLICT (patient_id, tooth_number)
		  DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = now()`
	return db.WithContext(ctx).Exec(query, args...).Error
}

func ListToothTreatments(ctx context.Context, db *gorm.DB, patientID, toothNumber int) ([]ToothTreatment, error) {
	var list []ToothTreatment
	err := db.WithContext(ctx).Raw(`
		SELECT id, patient_id, tooth_number, treatment, treated_on::text, notes
		FROM tooth_treatments
		WHERE patient_id = ? AND tooth_number = ?
		ORDER BY treated_on DESC NULLS LAST, id DESC
	`, patientID, toothNumber).Scan(&list).Error
	return list, err
}

func CreateToothTreatment(ctx context.Context, db *gorm.DB, t *ToothTreatment) (int, error) {
	var res struct{ ID int }
	err := db.WithContext(ctx).Raw(`
		INSERT INTO tooth_treatments (patient_id, tooth_number, treatment, treated_on, notes)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, t.PatientID, t.ToothNumber, t.Treatment, t.TreatedOn, t.Notes).Scan(&res).Error
	return res.ID, err
}
