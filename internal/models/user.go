package models

import "time"

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Name              string     `json:"name,omitempty"`
	EmailVerified     *time.Time `json:"email_verified,omitempty"`
	VerificationToken *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpiry  *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}

type UserProfileResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name,omitempty"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Demo          bool       `json:"demo,omitempty"`
}

func (u *User) Profile() UserProfileResponse {
	return UserProfileResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
