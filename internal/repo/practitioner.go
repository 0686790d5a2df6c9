package repo

import (
	"context"

	"gorm.io/gorm"
)

// Practitioner is a row of the practitioner directory. The id is the short
// code used on the agenda (e.g. "ah").
type Practitioner struct {
	ID        string
	FirstName string
	LastName  string
}

// ListPractitioners returns the directory without soft-deleted rows,
// ordered by id so palette assignment is stable between requests.
func ListPractitioners(ctx context.Context, db *gorm.DB) ([]Practitioner, error) {
	var list []Practitioner
	err := db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name
		FROM practitioners
		WHERE deleted = FALSE
		ORDER BY id
	`).Scan(&list).Error
	return list, err
}

func PractitionerByID(ctx context.Context, db *gorm.DB, id string) (*Practitioner, error) {
	var p Practitioner
	err := db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name
		FROM practitioners
		WHERE id = ? AND deleted = FALSE
	`, id).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}
