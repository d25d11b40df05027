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
	"hootool/internal/repository"
	"hootool/internal/utils"

	"go.uber.org/zap"
)

type PasswordService struct {
	repo       UserRepo
	mailer     Mailer
	siteURL    string // фронтовый URL, ссылка вида /reset-password?token=...
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewPasswordService(repo UserRepo, mailer Mailer, cfg *config.Config) *PasswordService {
	ttl := cfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PasswordService{
		repo:       repo,
		mailer:     mailer,
		siteURL:    cfg.SiteURL,
		tokenTTL:   ttl,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// RequestReset выставляет resetToken/resetTokenExpiry и шлёт ссылку.
// Для неизвестного email возвращает nil: наличие адреса не раскрываем.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)
	email = NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("Сброс пароля для неизвестного email", zap.String("email", email))
			metrics.Auth("forgot_password", "unknown")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := utils.NewOneTimeToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expires := s.now().Add(s.tokenTTL)
	if err := s.repo.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.siteURL, url.QueryEscape(token))
	if err := s.mailer.SendPasswordReset(ctx, u.Email, link, s.tokenTTL); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	metrics.Auth("forgot_password", "ok")
	log.Info("Ссылка на сброс пароля отправлена", zap.String("user_id", u.ID), zap.Time("expires_at", expires))
	return nil
}

// ResetPassword ставит новый пароль, если токен совпал и его срок строго в будущем.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	pwHash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.ResetPassword(ctx, token, pwHash, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Auth("reset_password", "invalid")
			logger.WithCtx(ctx).Warn("Неверный или просроченный токен при сбросе пароля")
			return ErrInvalidToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	metrics.Auth("reset_password", "ok")
	logger.WithCtx(ctx).Info("Пароль успешно сброшен", zap.String("user_id", u.ID))
	return nil
}
