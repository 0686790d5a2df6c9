package repo

import (
	"context"

	"gorm.io/gorm"
)

// Patient is a stored patient row. The national number (NISS) is kept
// AES-GCM encrypted; NISSHash is a SHA-256 over the normalized digits and
// is the only searchable form.
type Patient struct {
	ID              int
	FirstName       string
	LastName        string
	BirthDate       *string
	Phone           *string
	Email           *string
	Address         *string
	NISSEnc         *string `gorm:"column:niss_enc"`
	NISSKeyVer      *string `gorm:"column:niss_key_ver"`
	NISSHash        *string `gorm:"column:niss_hash"`
	Mutuality       *string
	InsuranceStatus *string
	Notes           *string
}

const patientCols = `
	id, first_name, last_name, birth_date::text, phone, email, address,
	niss_enc, niss_key_ver, niss_hash, mutuality, insurance_status, notes
`

// ListPatients returns non-deleted patients ordered by last name. search,
// when non-empty, matches first or last name case-insensitively.
func ListPatients(ctx context.Context, db *gorm.DB, search string) ([]Patient, error) {
	q := `SELECT ` + patientCols + ` FROM patients WHERE deleted = FALSE`
	args := []interface{}{}
	if search != "" {
		q += ` AND (first_name ILIKE ? OR last_name ILIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY last_name, first_name`
	var list []Patient
	err := db.WithContext(ctx).Raw(q, args...).Scan(&list).Error
	return list, err
}

func PatientByID(ctx context.Context, db *gorm.DB, id int) (*Patient, error) {
	var p Patient
	err := db.WithContext(ctx).Raw(`SELECT `+patientCols+` FROM patients WHERE id = ? AND deleted = FALSE`, id).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

// PatientByNISSHash looks a patient up by the hash of the normalized
// national number.
func PatientByNISSHash(ctx context.Context, db *gorm.DB, hash string) (*Patient, error) {
	var p Patient
	err := db.WithContext(ctx).Raw(`SELECT `+patientCols+` FROM patients WHERE niss_hash = ? AND deleted = FALSE`, hash).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func CreatePatient(ctx context.Context, db *gorm.DB, p *Patient) (int, error) {
	var res struct{ ID int }
	err := db.WithContext(ctx).Raw(`
		INSERT INTO patients (first_name, last_name, birth_date, phone, email, address,
		                      niss_enc, niss_key_ver, niss_hash, mutuality,
		                      insurance_status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Email, p.Address,
		p.NISSEnc, p.NISSKeyVer, p.NISSHash, p.Mutuality,
		p.InsuranceStatus, p.Notes).Scan(&res).Error
	return res.ID, err
}

func UpdatePatient(ctx context.Context, db *gorm.DB, p *Patient) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE patients
		SET first_name = ?, last_name = ?, birth_date = ?, phone = ?, email = ?,
		    address = ?, niss_enc = ?, niss_key_ver = ?, niss_hash = ?,
		    mutuality = ?, insurance_status = ?, notes = ?, updated_at = now()
		WHERE id = ? AND deleted = FALSE
	`, p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Email,
		p.Address, p.NISSEnc, p.NISSKeyVer, p.NISSHash,
		p.Mutuality, p.InsuranceStatus, p.Notes, p.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func SoftDeletePatient(ctx context.Context, db *gorm.DB, id int) error {
	result := db.WithContext(ctx).Exec(`
		UPDATE patients SET deleted = TRUE, updated_at = now()
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
