package domain

import "strings"

// Role is the closed set of principal roles the authorization layer knows about.
type Role int

const (
	RoleOther Role = iota
	RoleAdmin
	RoleStationUser
	RoleEVOwner
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleStationUser:
		return "StationUser"
	case RoleEVOwner:
		return "EVOwner"
	default:
		return "Other"
	}
}

// ParseRole maps a token/database role string onto a Role. Unknown strings map to RoleOther.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "backoffice":
		return RoleAdmin
	case "stationuser", "station_user", "csoperator", "operator":
		return RoleStationUser
	case "evowner", "ev_owner", "owner":
		return RoleEVOwner
	default:
		return RoleOther
	}
}

// HasFullAccess reports whether the role bypasses ownership checks.
func (r Role) HasFullAccess() bool {
	return r == RoleAdmin || r == RoleStationUser
}

// Principal is the authenticated actor of a request. It is resolved once and never mutated.
type Principal struct {
	ID   string
	Role Role
}

// Authenticated reports whether the principal carries an identifier.
func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.ID) != ""
}
