package repository

import (
	"context"
	"testing"
	"time"

	"hootool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryUserRepository_CreateUser_UniqueEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "1", Email: "a@x.com"}))
	err := repo.CreateUser(ctx, &models.User{ID: "2", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, repo.Count())

	taken, err := repo.IsEmailTaken(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestMemoryUserRepository_ConsumeVerificationToken_Once(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "1", Email: "a@x.com", VerificationToken: strPtr("tok")}))

	now := time.Now()
	u, err := repo.ConsumeVerificationToken(ctx, "tok", now)
	require.NoError(t, err)
	require.NotNil(t, u.EmailVerified)
	assert.True(t, u.EmailVerified.Equal(now))
	assert.Nil(t, u.VerificationToken)

	_, err = repo.ConsumeVerificationToken(ctx, "tok", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepository_ResetPassword_Expiry(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "1", Email: "a@x.com", PasswordHash: "old"}))

	now := time.Now()
	require.NoError(t, repo.SetResetToken(ctx, "1", "reset", now))

	// истекает ровно сейчас: уже невалиден
	_, err := repo.ResetPassword(ctx, "reset", "new", now)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SetResetToken(ctx, "1", "reset", now.Add(time.Minute)))
	u, err := repo.ResetPassword(ctx, "reset", "new", now)
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)
	assert.Nil(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpiry)
}

func TestMemoryUserRepository_SetVerificationToken_VerifiedUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "1", Email: "a@x.com", VerificationToken: strPtr("t1")}))
	_, err := repo.ConsumeVerificationToken(ctx, "t1", time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.SetVerificationToken(ctx, "1", "t2"), ErrNotFound)
	assert.ErrorIs(t, repo.SetVerificationToken(ctx, "missing", "t2"), ErrNotFound)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "1", Email: "a@x.com", Name: "A"}))

	u, err := repo.GetUserByID(ctx, "1")
	require.NoError(t, err)
	u.Name = "changed"

	again, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}
