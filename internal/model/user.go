package model

import "time"

type Role string

const (
	RoleParent Role = "parent"
	RoleCook   Role = "cook"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known household roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleCook, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type UserPreferences struct {
	Cuisines []string `json:"cuisines,omitempty" yaml:"cuisines"`
	Dietary  []string `json:"dietary,omitempty" yaml:"dietary"`
}

type User struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Role        Role            `json:"role"`
	Name        string          `json:"name"`
	Avatar      string          `json:"avatar"`
	Preferences UserPreferences `json:"preferences"`
	CreatedAt   time.Time       `json:"created_at"`
}
