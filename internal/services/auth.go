package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hootool/internal/config"
	"hootool/internal/logger"
	"hootool/internal/metrics"
	"hootool/internal/models"
	"hootool/internal/repository"
	"hootool/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// bcrypt использует только первые 72 байта пароля и отказывает на более длинных.
const MaxPasswordBytes = 72

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ConsumeVerificationToken(ctx context.Context, token string, at time.Time) (*models.User, error)
	SetVerificationToken(ctx context.Context, userID, token string) error
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error)
}

type AuthService struct {
	repo       UserRepo
	mailer     Mailer
	siteURL    string
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(repo UserRepo, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:       repo,
		mailer:     mailer,
		siteURL:    cfg.SiteURL,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser создаёт пользователя и отправляет письмо с токеном верификации.
// Если письмо не ушло, строка остаётся; повторная отправка через ResendVerification.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	log := logger.WithCtx(ctx)
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if len(in.Password) > MaxPasswordBytes {
		metrics.Auth("register", "invalid")
		return nil, ErrPasswordTooLong
	}
	log.Info("Регистрация пользователя (service)", zap.String("email", email))

	exists, err := s.repo.IsEmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		metrics.Auth("register", "conflict")
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	token, err := utils.NewOneTimeToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	user := &models.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      hashed,
		Name:              strings.TrimSpace(in.Name),
		VerificationToken: &token,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.Auth("register", "conflict")
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.Name, s.verifyLink(token)); err != nil {
		metrics.Auth("register", "mail_failed")
		return user, fmt.Errorf("send verification email: %w", err)
	}

	metrics.Auth("register", "ok")
	log.Info("Пользователь зарегистрирован (service)", zap.String("user_id", user.ID))
	return user, nil
}

// VerifyEmail гасит токен верификации. Срок действия у этих токенов нет.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingFields
	}

	u, err := s.repo.ConsumeVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Auth("verify", "invalid")
			return ErrInvalidToken
		}
		return fmt.Errorf("consume verification token: %w", err)
	}

	metrics.Auth("verify", "ok")
	logger.WithCtx(ctx).Info("Email подтверждён (service)", zap.String("user_id", u.ID))
	return nil
}

// ResendVerification выпускает новый токен для неподтверждённого пользователя.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if u.IsVerified() {
		return ErrAlreadyVerified
	}

	token, err := utils.NewOneTimeToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.repo.SetVerificationToken(ctx, u.ID, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// подтвердили между чтением и записью
			return ErrAlreadyVerified
		}
		return fmt.Errorf("save verification token: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, u.Email, u.Name, s.verifyLink(token)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	metrics.Auth("resend_verification", "ok")
	return nil
}

// LoginUser проверяет пароль и выдаёт сессионный JWT.
func (s *AuthService) LoginUser(ctx context.Context, email, password, jwtSecret string, ttl time.Duration) (string, *models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Auth("login", "invalid")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if !utils.CheckPasswordHash(password, u.PasswordHash) {
		metrics.Auth("login", "invalid")
		logger.WithCtx(ctx).Warn("Неверный пароль (service)", zap.String("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsVerified() {
		metrics.Auth("login", "unverified")
		return "", nil, ErrEmailNotVerified
	}

	token, err := utils.GenerateToken(jwtSecret, u.ID, u.Email, ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	metrics.Auth("login", "ok")
	return token, u, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *AuthService) verifyLink(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", s.siteURL, url.QueryEscape(token))
}
