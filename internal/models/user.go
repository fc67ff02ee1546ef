package models

import (
	"gorm.io/datatypes"
)

// DefaultRole is granted to every account created through signup.
const DefaultRole = "USER"

// User describes a platform account. Accounts are created disabled and are
// switched on exactly once by a successful activation.
type User struct {
	BaseModel

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Enabled   bool   `gorm:"default:false" json:"enabled"`

	ProfilePicture string `json:"profile_picture"`

	Roles datatypes.JSONSlice[string] `json:"roles"`
}

// RoleNames returns the granted roles, defaulting to the standard role when
// none were persisted.
func (u *User) RoleNames() []string {
	if len(u.Roles) == 0 {
		return []string{DefaultRole}
	}
	return u.Roles
}
