package repository

import (
	"context"
	"time"

	"hootool/internal/logger"
	"hootool/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, COALESCE(name, ''), email_verified,
	verification_token, reset_token, reset_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.EmailVerified,
		&u.VerificationToken,
		&u.ResetToken,
		&u.ResetTokenExpiry,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("email", user.Email))
	query := `
	INSERT INTO users (id, email, password_hash, name, verification_token)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.VerificationToken,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		err = translate(err)
		if err != ErrDuplicate {
			logger.Log.Error("Ошибка создания пользователя (repo)", zap.Error(err))
		}
	}
	return err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.String("user_id", id))
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// ConsumeVerificationToken одним UPDATE подтверждает email и гасит токен,
// поэтому два параллельных запроса с одним токеном не пройдут оба.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, token string, at time.Time) (*models.User, error) {
	query := `
	UPDATE users
	SET email_verified = $2, verification_token = NULL, updated_at = $2
	WHERE verification_token = $1
	RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, token, at))
	if err != nil && err != ErrNotFound {
		logger.Log.Error("Ошибка подтверждения email (repo)", zap.Error(err))
	}
	return u, err
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, userID, token string) error {
	tag, err := r.db.Exec(ctx, `
	UPDATE users SET verification_token = $2, updated_at = now()
	WHERE id = $1 AND email_verified IS NULL`, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка сохранения токена верификации (repo)", zap.String("user_id", userID), zap.Error(err))
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
	UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = now()
	WHERE id = $1`, userID, token, expiresAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения токена сброса (repo)", zap.String("user_id", userID), zap.Error(err))
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword меняет хеш только если токен совпал и ещё не истёк (строго после now).
func (r *UserRepository) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	query := `
	UPDATE users
	SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = $3
	WHERE reset_token = $1 AND reset_token_expiry > $3
	RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, token, passwordHash, now))
	if err != nil && err != ErrNotFound {
		logger.Log.Error("Ошибка сброса пароля (repo)", zap.Error(err))
	}
	return u, err
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
