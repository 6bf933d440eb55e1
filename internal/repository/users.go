package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
)

const getProfileByID = `
SELECT id, user_id, group_id, name, email, role
FROM profiles
WHERE id = $1
`

// GetProfileByID fetches a single profile record.
func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfileByID, id)

	var (
		p     domain.Profile
		email sql.NullString
		role  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.GroupID, &p.Name, &email, &role); err != nil {
		return domain.Profile{}, err
	}
	p.Email = email.String
	p.Role = role.String
	return p, nil
}

const getUserByEmail = `
SELECT id, email, name, password_hash, verified, created_at
FROM users
WHERE email = $1
`

// GetUserByEmail fetches a user by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Verified, &u.CreatedAt,
	)
	return u, err
}

// CreateUserParams carries the fields for a new user record.
type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
}

const createUser = `
INSERT INTO users (id, email, name, password_hash, verified, created_at)
VALUES ($1, $2, $3, $4, FALSE, NOW())
RETURNING id, email, name, password_hash, verified, created_at
`

// CreateUser inserts a new unverified user.
func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRowContext(ctx, createUser,
		params.ID, params.Email, params.Name, params.PasswordHash,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Verified, &u.CreatedAt)
	return u, err
}

// CreateProfileParams carries the fields for a new profile record.
type CreateProfileParams struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	GroupID uuid.UUID
	Name    string
	Email   string
	Role    string
}

const createProfile = `
INSERT INTO profiles (id, user_id, group_id, name, email, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, group_id, name, email, role
`

// CreateProfile inserts the profile linked to a provisioned user.
func (q *Queries) CreateProfile(ctx context.Context, params CreateProfileParams) (domain.Profile, error) {
	var p domain.Profile
	err := q.db.QueryRowContext(ctx, createProfile,
		params.ID, params.UserID, params.GroupID, params.Name, params.Email, params.Role,
	).Scan(&p.ID, &p.UserID, &p.GroupID, &p.Name, &p.Email, &p.Role)
	return p, err
}
