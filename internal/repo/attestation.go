package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Attestation is a billing attestation (attestation de soins) for one
// patient visit. Amounts are integer cents.
type Attestation struct {
	ID                int
	PatientID         int
	PractitionerID    string
	IssuedOn          string `gorm:"column:issued_on"`
	PriceMode         string
	SendMethod        string
	ThirdPartyPayment bool
	TreatmentReason   *string
	TotalCents        int

	PatientFirstName *string `gorm:"column:patient_first_name"`
	PatientLastName  *string `gorm:"column:patient_last_name"`
	PracFirstName    string  `gorm:"column:prac_first_name"`
	PracLastName     string  `gorm:"column:prac_last_name"`
}

// AttestationLine is one prestation line (INAMI code, optional tooth,
// fee in cents).
type AttestationLine struct {
	ID            int
	AttestationID int
	Code          string
	ToothNumber   *int
	Label         *string
	FeeCents      int
	PerformedOn   *string
}

const attestationCols = `
	a.id, a.patient_id, a.practitioner_id, a.issued_on::text, a.price_mode,
	a.send_method, a.third_party_payment, a.treatment_reason, a.total_cents,
	p.first_name AS patient_first_name, p.last_name AS patient_last_name,
	pr.first_name AS prac_first_name, pr.last_name AS prac_last_name
`

// ListAttestations returns non-deleted attestations, newest first.
// patientID 0 means all patients.
func ListAttestations(ctx context.Context, db *gorm.DB, patientID int) ([]Attestation, error) {
	q := `
		SELECT ` + attestationCols + `
		FROM attestations a
		JOIN patients p ON p.id = a.patient_id
		JOIN practitioners pr ON pr.id = a.practitioner_id
		WHERE a.deleted = FALSE
	`
	args := []interface{}{}
	if patientID > 0 {
		q += ` AND a.patient_id = ?`
		args = append(args, patientID)
	}
	q += ` ORDER BY a.issued_on DESC, a.id DESC`
	var list []Attestation
	err := db.WithContext(ctx).Raw(q, args...).Scan(&list).Error
	return list, err
}

func AttestationByID(ctx context.Context, db *gorm.DB, id int) (*Attestation, error) {
	var a Attestation
	err := db.WithContext(ctx).Raw(`
		SELECT `+attestationCols+`
		FROM attestations a
		JOIN patients p ON p.id = a.patient_id
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

// CreateAttestation inserts the attestation and its lines; the stored total
// is the sum of the line fees.
func CreateAttestation(ctx context.Context, db *gorm.DB, a *Attestation, lines []AttestationLine) (int, error) {
	total := 0
	for _, l := range lines {
		total += l.FeeCents
	}
	var res struct{ ID int }
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO attestations (patient_id, practitioner_id, issued_on, price_mode,
			                          send_method, third_party_payment, treatment_reason, total_cents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, a.PatientID, a.PractitionerID, a.IssuedOn, a.PriceMode,
			a.SendMethod, a.ThirdPartyPayment, a.TreatmentReason, total).Scan(&res).Error; err != nil {
			return err
		}
		return createAttestationLines(tx, res.ID, lines)
	})
	return res.ID, err
}

// createAttestationLines batch-inserts the lines in one statement.
func createAttestationLines(tx *gorm.DB, attestationID int, lines []AttestationLine) error {
	if len(lines) == 0 {
		return nil
	}
	const cols = 6 // attestation_id, code, tooth_number, label, fee_cents, performed_on
	args := make([]interface{}, 0, len(lines)*cols)
	placeholders := make([]string, 0, len(lines))
	for i, l := range lines {
		args = append(args, attestationID, l.Code, l.ToothNumber, l.Label, l.FeeCents, l.PerformedOn)
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			i*cols+1, i*cols+2, i*cols+3, i*cols+4, i*cols+5, i*cols+6))
	}
	query := `INSERT INTO attestation_lines (attestation_id, code, tooth_number, label, fee_cents, performed_on) VALUES ` +
		strings.Join(placeholders, ", ")
	return tx.Exec(query, args...).Error
}

func ListAttestationLines(ctx context.Context, db *gorm.DB, attestationID int) ([]AttestationLine, error) {
	var list []AttestationLine
	err := db.WithContext(ctx).Raw(`
		SELECT id, attestation_id, code, tooth_number, label, fee_cents, performed_on::text
		FROM attestation_lines
		WHERE attestation_id = ?
		ORDER BY id
	`, attestationID).Scan(&list).Error
	return list, err
}
