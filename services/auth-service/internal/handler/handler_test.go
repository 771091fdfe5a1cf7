package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/auth"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

var (
	codePattern      = regexp.MustCompile(`verification code is: (\d{6})`)
	resetLinkPattern = regexp.MustCompile(`/reset-password/([0-9a-f]{40})`)
)

type stubMailer struct {
	mu    sync.Mutex
	texts []string
}

func (m *stubMailer) SendHTML(_ context.Context, _ []string, _, _, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, textBody)
	return nil
}

func (m *stubMailer) Verify(context.Context) error { return nil }

func (m *stubMailer) find(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.texts)
	match := re.FindStringSubmatch(m.texts[len(m.texts)-1])
	require.Len(t, match, 2)
	return match[1]
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	mailer  *stubMailer
	repo    repository.UserRepository
	jwtAuth *auth.JWTAuthenticator
}

func newTestServer(t *testing.T, environment string, pinger Pinger) *testServer {
	t.Helper()

	hasher, err := security.NewBcryptHasher(4)
	require.NoError(t, err)

	cfg := &config.AuthServiceConfig{
		Environment: environment,
		ClientURL:   "http://localhost:3000",
		Token: config.TokenConfig{
			Issuer:                  "islamic-app",
			Secret:                  "test-secret",
			SessionExpiresIn:        time.Hour,
			VerificationCodeExpires: 15 * time.Minute,
			VerificationLinkExpires: 24 * time.Hour,
			PasswordResetExpires:    10 * time.Minute,
		},
		Lockout: config.LockoutConfig{MaxAttempts: 5, LockDuration: 2 * time.Hour},
	}

	logger := zerolog.Nop()
	mailer := &stubMailer{}
	repo := repository.NewUserMemoryRepository()
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Secret, cfg.Token.SessionExpiresIn)

	deps := usecase.Deps{
		UserRepo: repo,
		Hasher:   hasher,
		JWTAuth:  jwtAuth,
		Mailer:   mailer,
		Config:   cfg,
		Logger:   &logger,
	}

	if pinger == nil {
		pinger = repo
	}

	return &testServer{
		handler: NewRouter(RouterParams{
			Config:               cfg,
			Logger:               &logger,
			AuthUsecase:          usecase.NewAuthUsecase(deps),
			VerificationUsecase:  usecase.NewVerificationUsecase(deps),
			PasswordResetUsecase: usecase.NewPasswordResetUsecase(deps),
			AccountUsecase:       usecase.NewAccountUsecase(deps),
			Pinger:               pinger,
		}),
		mailer:  mailer,
		repo:    repo,
		jwtAuth: jwtAuth,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) registerVerified(t *testing.T, email, password string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Aisha",
		"lastName":  "Khan",
		"email":     email,
		"password":  password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]string{
		"email": email,
		"code":  s.mailer.find(t, codePattern),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterVerifyLoginMe(t *testing.T) {
	s := newTestServer(t, "test", nil)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Aisha",
		"lastName":  "Khan",
		"email":     "a@x.com",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "emailError")

	rec = s.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]string{
		"email": "a@x.com",
		"code":  s.mailer.find(t, codePattern),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email verified successfully! You can now login.", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	token := body["token"].(string)
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)

	rec = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, true, user["isEmailVerified"])

	raw := strings.ToLower(rec.Body.String())
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "verification")
	assert.NotContains(t, raw, "reset")
}

func TestRegisterFailures(t *testing.T) {
	s := newTestServer(t, "test", nil)
	s.registerVerified(t, "a@x.com", "password123")

	t.Run("duplicate", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": "Other",
			"lastName":  "Person",
			"email":     "A@X.com",
			"password":  "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User already exists with this email", decodeBody(t, rec)["message"])
	})

	t.Run("validation", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": strings.Repeat("x", 51),
			"lastName":  "Khan",
			"email":     "not-an-email",
			"password":  "short",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Validation failed", body["message"])

		fields := map[string]string{}
		for _, e := range body["errors"].([]any) {
			fe := e.(map[string]any)
			fields[fe["field"].(string)] = fe["message"].(string)
		}
		assert.Contains(t, fields, "firstName")
		assert.Contains(t, fields, "password")
		assert.Equal(t, "Please add a valid email", fields["email"])
	})

	t.Run("password over 72 bytes", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": "Aisha",
			"lastName":  "Khan",
			"email":     "long@x.com",
			"password":  strings.Repeat("p", 80),
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "Validation failed", body["message"])
		fe := body["errors"].([]any)[0].(map[string]any)
		assert.Equal(t, "password", fe["field"])
		assert.Equal(t, "password must be at most 72 bytes", fe["message"])
	})

	t.Run("blank names", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": "   ",
			"lastName":  "   ",
			"email":     "blank@x.com",
			"password":  "password123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		fields := map[string]bool{}
		for _, e := range decodeBody(t, rec)["errors"].([]any) {
			fields[e.(map[string]any)["field"].(string)] = true
		}
		assert.True(t, fields["firstName"])
		assert.True(t, fields["lastName"])

		_, err := s.repo.GetUserByEmail(context.Background(), "blank@x.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("padded names are trimmed before the length check", func(t *testing.T) {
		first := strings.Repeat("x", 50)
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": "  " + first + "  ",
			"lastName":  " Khan ",
			"email":     "padded@x.com",
			"password":  "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		user, err := s.repo.GetUserByEmail(context.Background(), "padded@x.com")
		require.NoError(t, err)
		assert.Equal(t, first, user.FirstName)
		assert.Equal(t, "Khan", user.LastName)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeBody(t, rec)["message"])
	})
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t, "test", nil)
	s.registerVerified(t, "a@x.com", "password123")

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})
	unknownEmail := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.Bytes(), unknownEmail.Body.Bytes())

	t.Run("unverified", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"firstName": "New", "lastName": "User", "email": "new@x.com", "password": "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "NEW@x.com", "password": "password123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["needsVerification"])
		assert.Equal(t, "new@x.com", body["email"])
	})

	t.Run("locked", func(t *testing.T) {
		s.registerVerified(t, "lock@x.com", "password123")
		for range 5 {
			s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
				"email": "lock@x.com", "password": "wrong-password",
			})
		}

		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "lock@x.com", "password": "password123",
		})
		assert.Equal(t, http.StatusLocked, rec.Code)
	})
}

func TestSessionGuard(t *testing.T) {
	s := newTestServer(t, "test", nil)
	s.registerVerified(t, "a@x.com", "password123")
	token := s.login(t, "a@x.com", "password123")

	user, err := s.repo.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	foreign, _, err := auth.NewJWTAuthenticator("islamic-app", "another-secret", time.Hour).
		IssueSessionToken(user.ID.Hex())
	require.NoError(t, err)

	expired, _, err := s.jwtAuth.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		IssueSessionToken(user.ID.Hex())
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, message: "missing token"},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized, message: "missing token"},
		{name: "foreign secret", header: "Bearer " + foreign, status: http.StatusUnauthorized, message: "invalid token"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, message: "invalid token"},
		{name: "malformed", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized, message: "invalid token"},
		{name: "valid", header: "Bearer " + token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				body := decodeBody(t, rec)
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}

	t.Run("deleted account", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/protected/account", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "user not found", decodeBody(t, rec)["message"])
	})
}

func TestPasswordReset(t *testing.T) {
	s := newTestServer(t, "test", nil)
	s.registerVerified(t, "a@x.com", "password123")

	rec := s.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No user found with this email", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	raw := s.mailer.find(t, resetLinkPattern)

	rec = s.do(t, http.MethodPut, "/api/auth/reset-password/"+raw, "", map[string]string{"password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPut, "/api/auth/reset-password/"+raw, "", map[string]string{"password": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPut, "/api/auth/reset-password/"+raw, "", map[string]string{"password": "new-password"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)
	require.Len(t, rec.Result().Cookies(), 1)

	rec = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/auth/reset-password/"+raw, "", map[string]string{"password": "other-password"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, rec)["message"])

	s.login(t, "a@x.com", "new-password")
}

func TestVerificationRoutes(t *testing.T) {
	s := newTestServer(t, "test", nil)

	rec := s.do(t, http.MethodPost, "/api/auth/resend-verification", "", map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Aisha", "lastName": "Khan", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]string{"email": "a@x.com", "code": "000000"})
	if s.mailer.find(t, codePattern) != "000000" {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or expired verification code", decodeBody(t, rec)["message"])
	}

	rec = s.do(t, http.MethodGet, "/api/auth/verify-email/deadbeef", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired verification token", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPost, "/api/auth/resend-verification-link", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	link := s.mailer.find(t, regexp.MustCompile(`/verify-email/([0-9a-f]{40})`))

	rec = s.do(t, http.MethodGet, "/api/auth/verify-email/"+link, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/resend-verification", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is already verified", decodeBody(t, rec)["message"])
}

func TestProtectedRoutes(t *testing.T) {
	s := newTestServer(t, "test", nil)
	s.registerVerified(t, "a@x.com", "password123")
	token := s.login(t, "a@x.com", "password123")

	rec := s.do(t, http.MethodGet, "/api/protected/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody(t, rec)["user"].(map[string]any)
	assert.Contains(t, profile, "lastLogin")
	assert.Contains(t, profile, "createdAt")

	rec = s.do(t, http.MethodPut, "/api/protected/profile", token, map[string]string{"firstName": "Fatima"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fatima", decodeBody(t, rec)["user"].(map[string]any)["firstName"])

	rec = s.do(t, http.MethodPut, "/api/protected/profile", token, map[string]string{"firstName": "   ", "lastName": " Ali "})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Fatima", updated["firstName"])
	assert.Equal(t, "Ali", updated["lastName"])

	rec = s.do(t, http.MethodGet, "/api/protected/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Fatima Ali", data["user"].(map[string]any)["name"])
	assert.Len(t, data["notifications"], 1)

	rec = s.do(t, http.MethodPut, "/api/protected/change-password", token, map[string]string{
		"currentPassword": "wrong-password", "newPassword": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password is incorrect", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPut, "/api/protected/change-password", token, map[string]string{
		"currentPassword": "password123", "newPassword": strings.Repeat("p", 80),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPut, "/api/protected/change-password", token, map[string]string{
		"currentPassword": "password123", "newPassword": "new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	s.login(t, "a@x.com", "new-password")

	rec = s.do(t, http.MethodGet, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "none", cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
	assert.True(t, cookies[0].HttpOnly)
}

func TestRoutingAndHealth(t *testing.T) {
	t.Run("unknown route", func(t *testing.T) {
		s := newTestServer(t, "test", nil)
		rec := s.do(t, http.MethodGet, "/api/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeBody(t, rec)["message"])
	})

	t.Run("wrong method", func(t *testing.T) {
		s := newTestServer(t, "test", nil)
		rec := s.do(t, http.MethodGet, "/api/auth/login", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, "test", nil)
		rec := s.do(t, http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["timestamp"])
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("database down", func(t *testing.T) {
		s := newTestServer(t, "test", stubPinger{err: errors.New("no reachable servers")})
		rec := s.do(t, http.MethodGet, "/api/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "no reachable servers")
	})

	t.Run("test email outside production", func(t *testing.T) {
		s := newTestServer(t, "development", nil)
		rec := s.do(t, http.MethodPost, "/api/auth/test-email", "", map[string]string{"email": "me@x.com"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["success"])
		assert.Equal(t, "123456", s.mailer.find(t, codePattern))
	})

	t.Run("test email hidden in production", func(t *testing.T) {
		s := newTestServer(t, "production", nil)
		rec := s.do(t, http.MethodPost, "/api/auth/test-email", "", map[string]string{"email": "me@x.com"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("secure cookie in production", func(t *testing.T) {
		s := newTestServer(t, "production", nil)
		s.registerVerified(t, "a@x.com", "password123")

		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "a@x.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, rec.Result().Cookies(), 1)
		assert.True(t, rec.Result().Cookies()[0].Secure)
	})
}
