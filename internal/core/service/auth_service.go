package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/onless/driving-school-api/internal/core/domain"
	"github.com/onless/driving-school-api/internal/core/ports"
	"github.com/onless/driving-school-api/pkg/metrics"
)

// AuthService implements registration, login, token refresh, and bearer
// token resolution.
type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	codec      ports.TokenCodec
	dispatcher ports.VerificationDispatcher
	nowFunc    func() time.Time
}

// NewAuthService wires the credential flows. dispatcher may be nil when no
// verification pipeline is running (tests, one-off tooling).
func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, dispatcher ports.VerificationDispatcher) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		codec:      codec,
		dispatcher: dispatcher,
		nowFunc:    time.Now,
	}
}

// Register creates a new account. The role defaults to student when omitted;
// any member of the role enumeration is accepted as supplied.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}

	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The repository's unique-email constraint backstops the existence
	// check above against concurrent registrations of the same address.
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(ports.VerificationNotice{
			UserID:   created.ID,
			Email:    created.Email,
			FullName: created.FullName,
		})
	}

	metrics.RegistrationsTotal.WithLabelValues(string(created.Role)).Inc()
	return created, nil
}

// Login validates credentials and issues an access/refresh token pair.
// A missing account and a wrong password are indistinguishable to the
// caller; the liveness check runs only after the password verifies.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, nil, domain.ErrUserInactive
	}

	access, err := s.codec.Issue(user.ID, domain.TokenAccess)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.codec.Issue(user.ID, domain.TokenRefresh)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, user, nil
}

// Refresh mints a new access token from a refresh token. The refresh token
// itself is not rotated. Every rejection is uniform: an access token
// presented here, a stale subject, and an inactive user all surface as
// ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidToken
	}
	if claims.Type != domain.TokenRefresh {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	if !user.IsActive {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidToken
	}

	access, err := s.codec.Issue(user.ID, domain.TokenAccess)
	if err != nil {
		return "", err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return access, nil
}

// CurrentUser resolves a raw bearer token into a loaded, active user,
// short-circuiting on the first failure:
//
//	undecodable or expired token  → ErrInvalidCredentials (401)
//	non-numeric subject           → ErrInvalidCredentials (401)
//	subject no longer exists      → ErrUserNotFound       (404)
//	account deactivated           → ErrUserInactive       (403)
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, domain.ErrTokenExpired) {
			reason = "expired"
		}
		metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("bad_subject").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("user_not_found").Inc()
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		metrics.AuthFailuresTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrUserInactive
	}

	return user, nil
}
