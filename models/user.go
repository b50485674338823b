package models

import "time"

type User struct {
	Base
	Username        string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone           string     `gorm:"size:20;index" json:"phone,omitempty"`
	Password        string     `gorm:"size:255;not null" json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at,omitempty"`
	Audit
}

func (User) TableName() string {
	return "users"
}
