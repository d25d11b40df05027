package repository

import (
	"context"
	"sync"
	"time"

	"hootool/internal/models"
)

// MemoryUserRepository: хранилище пользователей в памяти процесса.
// Используется в демо-режиме (без Postgres) и в тестах.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User // по id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = clone(user)
	return nil
}

func (r *MemoryUserRepository) IsEmailTaken(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail(email) != nil, nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.byEmail(email); u != nil {
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) ConsumeVerificationToken(_ context.Context, token string, at time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			verified := at
			u.EmailVerified = &verified
			u.VerificationToken = nil
			u.UpdatedAt = at
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) SetVerificationToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.EmailVerified != nil {
		return ErrNotFound
	}
	u.VerificationToken = &token
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	exp := expiresAt
	u.ResetToken = &token
	u.ResetTokenExpiry = &exp
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) ResetPassword(_ context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetToken == nil || *u.ResetToken != token {
			continue
		}
		if u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(now) {
			return nil, ErrNotFound
		}
		u.PasswordHash = passwordHash
		u.ResetToken = nil
		u.ResetTokenExpiry = nil
		u.UpdatedAt = now
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Ping(context.Context) error {
	return nil
}

// Count: число пользователей; нужно тестам.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *MemoryUserRepository) byEmail(email string) *models.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	if u.EmailVerified != nil {
		t := *u.EmailVerified
		c.EmailVerified = &t
	}
	if u.VerificationToken != nil {
		s := *u.VerificationToken
		c.VerificationToken = &s
	}
	if u.ResetToken != nil {
		s := *u.ResetToken
		c.ResetToken = &s
	}
	if u.ResetTokenExpiry != nil {
		t := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &t
	}
	return &c
}
