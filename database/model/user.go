package model

import "time"

// Role is the permission level of a blog user.
type Role string

const (
	AdminRole   Role = "adminRole"   // owns the blog, can manage users
	DefaultRole Role = "defaultRole" // can post articles
	VisitorRole Role = "visitorRole" // can comment only
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case AdminRole, DefaultRole, VisitorRole:
		return true
	}
	return false
}

// User is a blog user account.
type User struct {
	OId          string    `json:"oId" gorm:"column:o_id;primaryKey;size:36"`
	UserName     string    `json:"userName" gorm:"not null"`
	UserEmail    string    `json:"userEmail" gorm:"uniqueIndex;not null"`
	UserURL      string    `json:"userURL" gorm:"column:user_url"`
	UserRole     Role      `json:"userRole" gorm:"not null;index"`
	UserAvatar   string    `json:"userAvatar"`
	UserPassword string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.UserRole == AdminRole
}
