package entity

import (
	"time"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and is never serialised.
type User struct {
	ID           string     `json:"_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	Location     string     `json:"location"`
	Slug         string     `json:"slug"`
	ImgProfile   string     `json:"img_profile,omitempty"`
	ImgProfileID string     `json:"img_profilePublic,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    string     `json:"created_by,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	UpdatedBy    string     `json:"updated_by,omitempty"`
	DeletedAt    *time.Time `json:"-"`
	DeletedBy    string     `json:"-"`
}

const DefaultUserLocation = "my city"

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool { return u.DeletedAt != nil }

// UserSummary is the minimal projection used in admin listings.
type UserSummary struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Location   string `json:"location"`
	IsVerified bool   `json:"isVerified"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Location:   u.Location,
		IsVerified: u.IsVerified,
	}
}
