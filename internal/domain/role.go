package domain

import "strings"

// Role enumerates the account categories that govern which views are authorized.
type Role string

const (
	RoleStudent Role = "student"
	RoleCollege Role = "college"
)

// ParseRole normalizes a user supplied role. The boolean is false for unknown values.
// The result is always one of the package constants, never a view of raw.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleCollege:
		return RoleCollege, true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the known account categories.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCollege:
		return true
	default:
		return false
	}
}

// DashboardPath returns the landing view for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleStudent:
		return "/student/dashboard"
	case RoleCollege:
		return "/college/dashboard"
	default:
		return HomePath
	}
}

// HomePath is the public landing route.
const HomePath = "/"
