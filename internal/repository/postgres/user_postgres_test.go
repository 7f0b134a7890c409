package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"homecare/internal/model"
	"homecare/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password_hash", "full_name", "phone", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	now := time.Now().UTC()
	u := &model.User{ID: "u-1", Email: "anna@example.ch", PasswordHash: "hash", FullName: "Anna Muster", CreatedAt: now}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.CreatedAt).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(u.ID, u.Email, u.PasswordHash, u.FullName, "", now))

		got, err := repo.Create(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, "anna@example.ch", got.Email)
	})

	t.Run("email taken", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		got, err := repo.Create(context.Background(), u)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ").
		WithArgs("anna@example.ch").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "anna@example.ch", "hash", "Anna", "", time.Now()))
	u, err := repo.FindByEmail(ctx, "anna@example.ch")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	u, err = repo.FindByID(ctx, "missing")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionPostgres(db)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	s := &model.Session{ID: "s-1", UserID: "u-1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}

	t.Run("create", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO auth_sessions").
			WithArgs(s.ID, s.UserID, s.ExpiresAt, s.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Create(ctx, s))
	})

	t.Run("find active", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM auth_sessions WHERE id = (.+) AND expires_at > ").
			WithArgs("s-1", now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
				AddRow(s.ID, s.UserID, s.ExpiresAt, s.CreatedAt))
		got, err := repo.FindActive(ctx, "s-1", now)
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.UserID)
	})

	t.Run("find expired", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM auth_sessions").
			WithArgs("s-1", now.Add(2*time.Hour)).
			WillReturnError(sql.ErrNoRows)
		_, err := repo.FindActive(ctx, "s-1", now.Add(2*time.Hour))
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM auth_sessions WHERE id = ").
			WithArgs("s-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.NoError(t, repo.Delete(ctx, "s-1"))
	})

	t.Run("delete expired", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM auth_sessions WHERE expires_at <= ").
			WithArgs(now).
			WillReturnResult(sqlmock.NewResult(0, 4))
		n, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewPostgres(db)
	now := time.Now().UTC()
	rv := &model.Review{ID: "r-1", BookingID: "b-1", CustomerID: "u-1", Rating: 5, Comment: "Spotless", CreatedAt: now}
	cols := []string{"id", "booking_id", "customer_id", "rating", "comment", "created_at"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(rv.ID, rv.BookingID, rv.CustomerID, rv.Rating, rv.Comment, rv.CreatedAt).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("r-1", "b-1", "u-1", 5, "Spotless", now))

		got, err := repo.Create(context.Background(), rv)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Rating)
	})

	t.Run("second review for booking", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reviews").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(context.Background(), rv)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
