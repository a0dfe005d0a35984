package domain

import "strings"

// Role is the closed set of member roles. Values outside the set are never
// produced by ParseRole, so every Role that reaches the policy is known.
type Role string

const (
	RoleHomeowner Role = "homeowner"
	RoleAdmin     Role = "admin"
	RolePresident Role = "pres"
	RoleVicePres  Role = "vp"
	RoleSecretary Role = "sec"
	RoleTreasurer Role = "treasurer"
	RoleBoard     Role = "bod"
)

// DefaultRole is assigned to self-registered members.
const DefaultRole = RoleHomeowner

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{
		RoleHomeowner,
		RoleAdmin,
		RolePresident,
		RoleVicePres,
		RoleSecretary,
		RoleTreasurer,
		RoleBoard,
	}
}

// ParseRole accepts the stored string form of a role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleHomeowner, RoleAdmin, RolePresident, RoleVicePres,
		RoleSecretary, RoleTreasurer, RoleBoard:
		return true
	default:
		return false
	}
}

// IsOfficer reports whether r is one of the board officer titles. Officers
// hold no extra privileges; the title is informational.
func (r Role) IsOfficer() bool {
	switch r {
	case RolePresident, RoleVicePres, RoleSecretary, RoleTreasurer, RoleBoard:
		return true
	default:
		return false
	}
}

// Label is the human-readable title shown in member listings.
func (r Role) Label() string {
	switch r {
	case RoleHomeowner:
		return "Homeowner"
	case RoleAdmin:
		return "Administrator"
	case RolePresident:
		return "President"
	case RoleVicePres:
		return "Vice President"
	case RoleSecretary:
		return "Secretary"
	case RoleTreasurer:
		return "Treasurer"
	case RoleBoard:
		return "Board of Directors"
	default:
		return "Unknown"
	}
}

func (r Role) String() string { return string(r) }
