package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/onless/driving-school-api/internal/api"
	"github.com/onless/driving-school-api/internal/api/handler"
	"github.com/onless/driving-school-api/internal/core/domain"
	"github.com/onless/driving-school-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn       func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn     func(ctx context.Context, token string) (string, error)
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentUserFn(ctx, token)
}

type stubLimiter struct {
	allowed bool
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allowed, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop(), "production")
	return e
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "a@x.com" || in.FullName != "Alice Driver" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Role != "" {
				t.Fatalf("expected empty role, got %s", in.Role)
			}
			return &domain.User{ID: 1, Email: in.Email, FullName: in.FullName, Role: domain.RoleStudent, IsActive: true, PasswordHash: "secret-digest"}, nil
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Register, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"longenough1","full_name":"Alice Driver"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "a@x.com" || resp["role"] != "student" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "secret-digest") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked into response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Register, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"longenough1","full_name":"Alice"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Register, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"short","full_name":"Alice"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_BadRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Register, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"longenough1","full_name":"Alice","role":"superuser"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			if email != "a@x.com" || password != "longenough1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			pair := &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"}
			return pair, &domain.User{ID: 1, Email: email, Role: domain.RoleStudent, IsActive: true}, nil
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"longenough1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "acc" || resp["refresh_token"] != "ref" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "a@x.com" {
		t.Fatalf("unexpected user: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong1234"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Inactive(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrUserInactive
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"longenough1"}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_RateLimited(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			t.Fatalf("service should not be called when throttled")
			return nil, nil, nil
		},
	}
	h := handler.NewAuthHandler(stub, &stubLimiter{allowed: false})

	rec := doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"longenough1"}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) Allow(_ context.Context, email string) (bool, error) {
	l.keys = append(l.keys, email)
	return true, nil
}

func TestAuthHandler_Login_ThrottleKeyIsCanonical(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	limiter := &recordingLimiter{}
	h := handler.NewAuthHandler(stub, limiter)

	doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"A@X.com","password":"longenough1"}`)
	doJSON(e, h.Login, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"longenough1"}`)

	if len(limiter.keys) != 2 {
		t.Fatalf("expected 2 limiter calls, got %d", len(limiter.keys))
	}
	for _, key := range limiter.keys {
		if key != "a@x.com" {
			t.Fatalf("case variant got its own throttle bucket: %q", key)
		}
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "refresh-token" {
				t.Fatalf("unexpected token: %s", token)
			}
			return "new-access", nil
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Refresh, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"refresh-token"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-access" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (string, error) {
			return "", domain.ErrInvalidToken
		},
	}
	h := handler.NewAuthHandler(stub, nil)

	rec := doJSON(e, h.Refresh, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"an-access-token"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := handler.NewAuthHandler(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth_user", &domain.User{ID: 1, Email: "a@x.com", Role: domain.RoleStudent})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "a@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
