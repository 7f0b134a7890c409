package postgres

import (
	"context"
	"database/sql"
	"time"

	"homecare/internal/model"
	"homecare/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts a user. A taken email yields repository.ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, full_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, password_hash, full_name, phone, created_at
	`
	row := r.db.QueryRowContext(ctx, q, u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.CreatedAt)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByEmail looks a user up by normalised email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT id, email, password_hash, full_name, phone, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByID looks a user up by id.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
		SELECT id, email, password_hash, full_name, phone, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// SessionPostgres is a PostgreSQL implementation of repository.SessionRepository.
type SessionPostgres struct {
	db *sql.DB
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db *sql.DB) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

func (r *SessionPostgres) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO auth_sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.UserID, s.ExpiresAt, s.CreatedAt)
	return err
}

func (r *SessionPostgres) FindActive(ctx context.Context, id string, now time.Time) (*model.Session, error) {
	const q = `
		SELECT id, user_id, expires_at, created_at
		FROM auth_sessions
		WHERE id = $1 AND expires_at > $2
	`
	var s model.Session
	if err := r.db.QueryRowContext(ctx, q, id, now).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = $1`, id)
	return err
}

func (r *SessionPostgres) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
