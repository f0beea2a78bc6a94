package domain

import "strings"

// Role is the capability tier of a session. The zero value is RoleUnknown,
// which is what an unrecognised persisted tag parses to.
type Role int

const (
	RoleUnknown Role = iota
	RoleGuest
	RolePatient
	RoleLoggedPatient
	RoleDoctor
	RoleAdmin
)

// Persisted role tags, as stored next to the token in the session store.
const (
	TagPatient       = "patient"
	TagLoggedPatient = "loggedPatient"
	TagDoctor        = "doctor"
	TagAdmin         = "admin"
)

// ParseRole maps a persisted tag to a Role. An empty tag is an anonymous
// visitor (Guest); anything unrecognised is RoleUnknown.
func ParseRole(tag string) Role {
	switch strings.TrimSpace(tag) {
	case "":
		return RoleGuest
	case TagPatient:
		return RolePatient
	case TagLoggedPatient:
		return RoleLoggedPatient
	case TagDoctor:
		return RoleDoctor
	case TagAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Tag returns the persisted form of r. Guest and Unknown persist as empty.
func (r Role) Tag() string {
	switch r {
	case RolePatient:
		return TagPatient
	case RoleLoggedPatient:
		return TagLoggedPatient
	case RoleDoctor:
		return TagDoctor
	case RoleAdmin:
		return TagAdmin
	default:
		return ""
	}
}

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RolePatient, RoleLoggedPatient, RoleDoctor, RoleAdmin:
		return r.Tag()
	default:
		return "unknown"
	}
}

// MarshalText renders the role by name in JSON payloads.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (r *Role) UnmarshalText(text []byte) error {
	switch name := string(text); name {
	case "guest":
		*r = RoleGuest
	default:
		*r = ParseRole(name)
	}
	return nil
}

// Privileged reports whether r can only be held together with a token.
func (r Role) Privileged() bool {
	return r == RoleLoggedPatient || r == RoleDoctor || r == RoleAdmin
}

// AppointmentScope is the path segment used by the backend to scope
// appointment listings, or "" when r has no appointments of its own.
func (r Role) AppointmentScope() string {
	switch r {
	case RoleLoggedPatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	default:
		return ""
	}
}
