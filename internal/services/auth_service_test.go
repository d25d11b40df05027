package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hootool/internal/config"
	"hootool/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Мок-мейлер: запоминает ссылки, может падать.
type mockMailer struct {
	mu          sync.Mutex
	verifyLinks []string
	resetLinks  []string
	err         error
}

func (m *mockMailer) SendVerification(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.verifyLinks = append(m.verifyLinks, link)
	return nil
}

func (m *mockMailer) SendPasswordReset(_ context.Context, _, link string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	i := strings.Index(link, "token=")
	require.True(t, i >= 0, "в ссылке нет токена: %s", link)
	return link[i+len("token="):]
}

func testConfig() *config.Config {
	return &config.Config{
		SiteURL:       "https://hootool.test",
		BcryptCost:    bcrypt.MinCost,
		ResetTokenTTL: time.Hour,
	}
}

type fixture struct {
	repo   *repository.MemoryUserRepository
	mailer *mockMailer
	auth   *AuthService
	pw     *PasswordService
}

func newFixture() *fixture {
	repo := repository.NewMemoryUserRepository()
	mailer := &mockMailer{}
	cfg := testConfig()
	return &fixture{
		repo:   repo,
		mailer: mailer,
		auth:   NewAuthService(repo, mailer, cfg),
		pw:     NewPasswordService(repo, mailer, cfg),
	}
}

func (f *fixture) registerVerified(t *testing.T, email, password string) {
	t.Helper()
	_, err := f.auth.RegisterUser(context.Background(), RegisterInput{Email: email, Password: password})
	require.NoError(t, err)
	token := tokenFromLink(t, f.mailer.verifyLinks[len(f.mailer.verifyLinks)-1])
	require.NoError(t, f.auth.VerifyEmail(context.Background(), token))
}

func TestRegisterUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.RegisterUser(ctx, RegisterInput{Email: " A@X.com ", Password: "pw123", Name: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.Nil(t, user.EmailVerified)
	require.NotNil(t, user.VerificationToken)
	assert.Len(t, *user.VerificationToken, 64)

	require.Len(t, f.mailer.verifyLinks, 1)
	assert.Equal(t, "https://hootool.test/verify-email?token="+*user.VerificationToken, f.mailer.verifyLinks[0])
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: "pw456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegisterUser_MissingFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = f.auth.RegisterUser(ctx, RegisterInput{Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingFields)

	assert.Equal(t, 0, f.repo.Count())
	assert.Empty(t, f.mailer.verifyLinks)
}

func TestRegisterUser_MailFailureKeepsRow(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp down")

	_, err := f.auth.RegisterUser(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmailTaken))
	assert.Equal(t, 1, f.repo.Count())

	// после починки SMTP пользователь получает новый токен
	f.mailer.err = nil
	require.NoError(t, f.auth.ResendVerification(context.Background(), "a@x.com"))
	require.Len(t, f.mailer.verifyLinks, 1)
	assert.NoError(t, f.auth.VerifyEmail(context.Background(), tokenFromLink(t, f.mailer.verifyLinks[0])))
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	token := tokenFromLink(t, f.mailer.verifyLinks[0])

	require.NoError(t, f.auth.VerifyEmail(ctx, token))
	u, err := f.repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotNil(t, u.EmailVerified)
	assert.Nil(t, u.VerificationToken)

	assert.ErrorIs(t, f.auth.VerifyEmail(ctx, token), ErrInvalidToken)
	assert.ErrorIs(t, f.auth.VerifyEmail(ctx, ""), ErrMissingFields)
}

func TestResendVerification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.auth.ResendVerification(ctx, "nobody@x.com"), ErrUserNotFound)

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	oldToken := tokenFromLink(t, f.mailer.verifyLinks[0])

	require.NoError(t, f.auth.ResendVerification(ctx, "a@x.com"))
	newToken := tokenFromLink(t, f.mailer.verifyLinks[1])
	assert.NotEqual(t, oldToken, newToken)

	assert.ErrorIs(t, f.auth.VerifyEmail(ctx, oldToken), ErrInvalidToken)
	require.NoError(t, f.auth.VerifyEmail(ctx, newToken))
	assert.ErrorIs(t, f.auth.ResendVerification(ctx, "a@x.com"), ErrAlreadyVerified)
}

func TestLoginUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, _, err = f.auth.LoginUser(ctx, "a@x.com", "pw123", "secret", time.Hour)
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	require.NoError(t, f.auth.VerifyEmail(ctx, tokenFromLink(t, f.mailer.verifyLinks[0])))

	token, u, err := f.auth.LoginUser(ctx, "a@x.com", "pw123", "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "a@x.com", u.Email)

	_, _, err = f.auth.LoginUser(ctx, "a@x.com", "wrong", "secret", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.auth.LoginUser(ctx, "unknown@x.com", "pw123", "secret", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterUser_PasswordTooLong(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: strings.Repeat("p", 80)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, 0, f.repo.Count())
	assert.Empty(t, f.mailer.verifyLinks)

	// ровно 72 байта ещё допустимо
	_, err = f.auth.RegisterUser(ctx, RegisterInput{Email: "a@x.com", Password: strings.Repeat("p", MaxPasswordBytes)})
	assert.NoError(t, err)
}
