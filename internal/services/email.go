package services

import (
	"context"
	"fmt"
	"time"

	"hootool/internal/config"
	"hootool/internal/logger"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer: отправка писем auth-потоков.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, link string, ttl time.Duration) error
}

// NewMailer выбирает SMTP-отправку или запись в лог (демо-режим / SMTP не настроен).
func NewMailer(cfg *config.Config) Mailer {
	if cfg.DemoMode || !cfg.SMTPConfigured() {
		return &LogMailer{}
	}
	return NewEmailService(cfg)
}

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (s *EmailService) SendVerification(ctx context.Context, to, name, link string) error {
	plain := fmt.Sprintf("请打开以下链接验证您的邮箱：%s", link)
	return s.send(ctx, to, "验证您的 HooTool AI 邮箱", helpers.BuildVerificationHTML(name, link), plain)
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, link string, ttl time.Duration) error {
	plain := fmt.Sprintf("请打开以下链接重置密码（%s 内有效）：%s", ttl, link)
	return s.send(ctx, to, "重置您的 HooTool AI 密码", helpers.BuildPasswordResetHTML(link, ttl.String()), plain)
}

func (s *EmailService) send(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	msg.AddAlternative("text/plain", plainBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	logger.WithCtx(ctx).Info("Письмо отправлено", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// LogMailer ничего не отправляет, только пишет ссылку в лог.
type LogMailer struct{}

func (LogMailer) SendVerification(ctx context.Context, to, _, link string) error {
	logger.WithCtx(ctx).Info("SMTP отключён: письмо верификации не отправлено",
		zap.String("to", to), zap.String("link", link))
	return nil
}

func (LogMailer) SendPasswordReset(ctx context.Context, to, link string, ttl time.Duration) error {
	logger.WithCtx(ctx).Info("SMTP отключён: письмо сброса пароля не отправлено",
		zap.String("to", to), zap.String("link", link), zap.Duration("ttl", ttl))
	return nil
}
