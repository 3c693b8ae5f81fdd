package models

import "time"

type User struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:320;not null" json:"email"`
	HashedPassword string    `gorm:"size:1024;not null" json:"-"`
	NickName       string    `json:"nick_name"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null" json:"last_name"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	RegisteredAt   time.Time `gorm:"autoCreateTime" json:"registered_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=3"`
	NickName  string `json:"nick_name" binding:"required,notblank"`
	FirstName string `json:"first_name" binding:"required,notblank"`
	LastName  string `json:"last_name" binding:"required,notblank"`
}

// LoginRequest accepts the OAuth2 password form (username) as well as JSON (email).
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login returns the identifier the user signed in with.
func (r LoginRequest) Login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}
