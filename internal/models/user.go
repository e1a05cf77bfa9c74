package models

import (
	"time"

	"review-backend/internal/policy"
)

type User struct {
	ID          uint        `gorm:"primaryKey" json:"-"`
	Username    string      `gorm:"uniqueIndex;not null;size:150" json:"username" example:"cinephile"`
	Email       string      `gorm:"uniqueIndex;not null;size:254" json:"email" example:"cinephile@example.com"`
	FirstName   string      `gorm:"size:150" json:"first_name" example:"Ann"`
	LastName    string      `gorm:"size:150" json:"last_name" example:"Lee"`
	Bio         string      `gorm:"type:text" json:"bio" example:"Film buff"`
	Role        policy.Role `gorm:"not null;size:16;default:user" json:"role" example:"user"`
	IsSuperuser bool        `gorm:"not null;default:false" json:"-"`
	IsConfirmed bool        `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Actor projects the user onto the identity used by the policy engine.
func (u *User) Actor() policy.Actor {
	if u == nil {
		return policy.Anonymous()
	}
	return policy.Actor{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

// ConfirmationCode is one issued signup code. Only the hash is stored.
type ConfirmationCode struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"not null;index"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CodeHash   string     `gorm:"not null;size:72"`
	IssuedAt   time.Time  `gorm:"not null;index"`
	ExpiresAt  time.Time  `gorm:"not null"`
	ConsumedAt *time.Time `gorm:"index"`
}

func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}

// Usable reports whether the code may still be exchanged at now.
func (c *ConfirmationCode) Usable(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}
