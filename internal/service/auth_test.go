package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"homecare/internal/auth"
	"homecare/internal/booking"
	"homecare/internal/model"
	"homecare/internal/repository"
	repoMocks "homecare/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestAuthService(users *repoMocks.MockUserRepository, sessions *repoMocks.MockSessionRepository) *authService {
	return NewAuthService(users, sessions, auth.NewTokens(testSecret), 24*time.Hour, zap.NewNop()).(*authService)
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and signs in", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		sessions := new(repoMocks.MockSessionRepository)
		svc := newTestAuthService(users, sessions)

		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "anna@example.ch" && u.PasswordHash != "" && u.PasswordHash != "correct horse" &&
				u.FullName == "Anna Muster"
		})).Return(func(_ context.Context, u *model.User) *model.User { return u }, nil)
		sessions.On("Create", ctx, mock.AnythingOfType("*model.Session")).Return(nil)

		res, err := svc.SignUp(ctx, SignUpInput{
			Email:    "  Anna@Example.CH ",
			Password: "correct horse",
			FullName: " Anna Muster ",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, res.User.ID, res.Session.UserID)

		claims, err := auth.NewTokens(testSecret).Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.Session.ID, claims.SessionID)
		assert.Equal(t, res.User.ID, claims.Subject)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		sessions := new(repoMocks.MockSessionRepository)
		svc := newTestAuthService(users, sessions)

		users.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.SignUp(ctx, SignUpInput{Email: "anna@example.ch", Password: "correct horse"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid input", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		svc := newTestAuthService(users, new(repoMocks.MockSessionRepository))

		_, err := svc.SignUp(ctx, SignUpInput{Email: "not-an-email", Password: "short"})

		var ve *booking.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "email", ve.Fields["email"])
		assert.Equal(t, "min", ve.Fields["password"])
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user := &model.User{ID: "u-1", Email: "anna@example.ch", PasswordHash: hash}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(users *repoMocks.MockUserRepository, sessions *repoMocks.MockSessionRepository)
		wantErr  error
	}{
		{
			name:     "valid credentials",
			email:    "ANNA@example.ch",
			password: "correct horse",
			setup: func(users *repoMocks.MockUserRepository, sessions *repoMocks.MockSessionRepository) {
				users.On("FindByEmail", ctx, "anna@example.ch").Return(user, nil)
				sessions.On("Create", ctx, mock.Anything).Return(nil)
			},
		},
		{
			name:     "wrong password",
			email:    "anna@example.ch",
			password: "battery staple",
			setup: func(users *repoMocks.MockUserRepository, sessions *repoMocks.MockSessionRepository) {
				users.On("FindByEmail", ctx, "anna@example.ch").Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.ch",
			password: "correct horse",
			setup: func(users *repoMocks.MockUserRepository, sessions *repoMocks.MockSessionRepository) {
				users.On("FindByEmail", ctx, "nobody@example.ch").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(repoMocks.MockUserRepository)
			sessions := new(repoMocks.MockSessionRepository)
			tt.setup(users, sessions)
			svc := newTestAuthService(users, sessions)

			res, err := svc.SignIn(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
		})
	}
}

func TestAuthService_SignOutInvalidatesToken(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	sessions := new(repoMocks.MockSessionRepository)
	svc := newTestAuthService(users, sessions)

	now := time.Now().UTC()
	sess := &model.Session{ID: "s-1", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}
	token, err := auth.NewTokens(testSecret).Issue("u-1", "s-1", "anna@example.ch", sess.ExpiresAt)
	require.NoError(t, err)

	sessions.On("FindActive", ctx, "s-1", mock.AnythingOfType("time.Time")).Return(sess, nil).Once()
	users.On("FindByID", ctx, "u-1").Return(&model.User{ID: "u-1"}, nil).Once()

	u, s, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "s-1", s.ID)

	sessions.On("Delete", ctx, "s-1").Return(nil)
	require.NoError(t, svc.SignOut(ctx, "s-1"))

	sessions.On("FindActive", ctx, "s-1", mock.AnythingOfType("time.Time")).Return(nil, sql.ErrNoRows).Once()
	_, _, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		svc := newTestAuthService(new(repoMocks.MockUserRepository), new(repoMocks.MockSessionRepository))
		_, _, err := svc.Authenticate(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty token", func(t *testing.T) {
		svc := newTestAuthService(new(repoMocks.MockUserRepository), new(repoMocks.MockSessionRepository))
		_, _, err := svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("session of another user", func(t *testing.T) {
		sessions := new(repoMocks.MockSessionRepository)
		svc := newTestAuthService(new(repoMocks.MockUserRepository), sessions)
		token, err := auth.NewTokens(testSecret).Issue("u-1", "s-9", "a@example.ch", exp)
		require.NoError(t, err)

		sessions.On("FindActive", ctx, "s-9", mock.Anything).Return(&model.Session{ID: "s-9", UserID: "u-2"}, nil)

		_, _, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("session lookup failure", func(t *testing.T) {
		sessions := new(repoMocks.MockSessionRepository)
		svc := newTestAuthService(new(repoMocks.MockUserRepository), sessions)
		token, err := auth.NewTokens(testSecret).Issue("u-1", "s-1", "a@example.ch", exp)
		require.NoError(t, err)

		sessions.On("FindActive", ctx, "s-1", mock.Anything).Return(nil, errors.New("db down"))

		_, _, err = svc.Authenticate(ctx, token)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	sessions := new(repoMocks.MockSessionRepository)
	svc := newTestAuthService(new(repoMocks.MockUserRepository), sessions)
	now := time.Now().UTC()

	sessions.On("DeleteExpired", ctx, now).Return(int64(3), nil)

	n, err := svc.PurgeExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
