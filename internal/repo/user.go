package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User is a login account. PractitionerID links the account to its agenda
// column; assistants have none.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	Role           string
	PractitionerID *string
}

func UserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*User, error) {
	var u User
	err := pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, practitioner_id
		FROM users WHERE email = $1 AND deleted = FALSE
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.PractitionerID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns the login directory without password hashes exposed to
// callers that only need identities.
func ListUsers(ctx context.Context, pool *pgxpool.Pool) ([]User, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, email, password_hash, role, practitioner_id
		FROM users WHERE deleted = FALSE
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.PractitionerID); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func CreateUser(ctx context.Context, pool *pgxpool.Pool, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, practitioner_id)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.PractitionerID)
	return err
}
