package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homecare/internal/auth"
	"homecare/internal/booking"
	"homecare/internal/model"
	"homecare/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not signed in")
)

// SignUpInput is the sign-up form. FullName and Phone are optional profile metadata.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=200"`
	Phone    string `json:"phone" validate:"omitempty,min=6,max=32"`
}

// AuthResult is returned by sign up and sign in.
type AuthResult struct {
	User    *model.User    `json:"user"`
	Session *model.Session `json:"session"`
	Token   string         `json:"access_token"`
}

// AuthService handles accounts and server-side sessions.
type AuthService interface {
	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	// SignIn verifies credentials and opens a new session.
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	// SignOut deletes the session. The token stops authenticating immediately.
	SignOut(ctx context.Context, sessionID string) error
	// Authenticate resolves a token to its user and live session.
	Authenticate(ctx context.Context, token string) (*model.User, *model.Session, error)
	// PurgeExpiredSessions deletes sessions that expired before now.
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *auth.Tokens
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService issuing sessions valid for ttl.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, tokens *auth.Tokens, ttl time.Duration, log *zap.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := booking.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user_signed_up", zap.String("user_id", u.ID))
	return s.openSession(ctx, u)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, u)
}

func (s *authService) openSession(ctx context.Context, u *model.User) (*AuthResult, error) {
	now := s.now()
	sess := &model.Session{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokens.Issue(u.ID, sess.ID, u.Email, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Session: sess, Token: token}, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnauthenticated
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}
	sess, err := s.sessions.FindActive(ctx, claims.SessionID, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("find session: %w", err)
	}
	if sess.UserID != claims.Subject {
		return nil, nil, ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	return u, sess, nil
}

func (s *authService) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.sessions.DeleteExpired(ctx, now)
}
