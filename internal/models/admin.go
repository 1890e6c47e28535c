package models

import "time"

type AdminRole string

const (
	RoleAdmin AdminRole = "admin"
)

type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         AdminRole `gorm:"size:20;not null;default:admin" json:"role"`

	// Password reset: only the sha256 hash of the emailed token is stored.
	PasswordResetToken   *string    `gorm:"size:64" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
