package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/shared/auth"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

var (
	codePattern       = regexp.MustCompile(`verification code is: (\d{6})`)
	resetLinkPattern  = regexp.MustCompile(`/reset-password/([0-9a-f]{40})`)
	verifyLinkPattern = regexp.MustCompile(`/verify-email/([0-9a-f]{40})`)
)

type sentEmail struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type recordingMailer struct {
	mu        sync.Mutex
	sent      []sentEmail
	sendErr   error
	verifyErr error
}

func (m *recordingMailer) SendHTML(_ context.Context, to []string, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

func (m *recordingMailer) Verify(context.Context) error {
	return m.verifyErr
}

func (m *recordingMailer) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

func (m *recordingMailer) last(t *testing.T) sentEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "no email was sent")
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	deps   Deps
	mailer *recordingMailer
	clock  *fakeClock

	auth          AuthUsecase
	verification  VerificationUsecase
	passwordReset PasswordResetUsecase
	account       AccountUsecase
}

var errSMTPDown = errors.New("smtp: connection refused")

func testConfig() *config.AuthServiceConfig {
	return &config.AuthServiceConfig{
		Environment: "test",
		ClientURL:   "http://localhost:3000",
		Token: config.TokenConfig{
			Issuer:                  "islamic-app",
			Secret:                  "test-secret",
			SessionExpiresIn:        time.Hour,
			VerificationCodeExpires: 15 * time.Minute,
			VerificationLinkExpires: 24 * time.Hour,
			PasswordResetExpires:    10 * time.Minute,
		},
		Lockout: config.LockoutConfig{
			MaxAttempts:  5,
			LockDuration: 2 * time.Hour,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher, err := security.NewBcryptHasher(4)
	require.NoError(t, err)

	cfg := testConfig()
	logger := zerolog.Nop()
	mailer := &recordingMailer{}
	clock := &fakeClock{now: time.Now()}

	deps := Deps{
		UserRepo: repository.NewUserMemoryRepository(),
		Hasher:   hasher,
		JWTAuth:  auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Secret, cfg.Token.SessionExpiresIn),
		Mailer:   mailer,
		Config:   cfg,
		Logger:   &logger,
		Now:      clock.Now,
	}

	return &testEnv{
		deps:          deps,
		mailer:        mailer,
		clock:         clock,
		auth:          NewAuthUsecase(deps),
		verification:  NewVerificationUsecase(deps),
		passwordReset: NewPasswordResetUsecase(deps),
		account:       NewAccountUsecase(deps),
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *model.User {
	t.Helper()

	res, err := e.auth.Register(context.Background(), RegisterParams{
		FirstName: "Aisha",
		LastName:  "Khan",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) registerVerified(t *testing.T, email, password string) *model.User {
	t.Helper()

	e.register(t, email, password)
	user, err := e.verification.VerifyEmailByCode(context.Background(), email, e.lastCode(t))
	require.NoError(t, err)
	return user
}

func (e *testEnv) lastCode(t *testing.T) string {
	t.Helper()
	return extract(t, codePattern, e.mailer.last(t).Text)
}

func extract(t *testing.T, re *regexp.Regexp, s string) string {
	t.Helper()

	m := re.FindStringSubmatch(s)
	require.Len(t, m, 2, "pattern %s not found in %q", re, s)
	return m[1]
}
