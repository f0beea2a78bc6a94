package domain

// Session is the client-held record of role and token. It is passed
// explicitly to every component that needs it.
type Session struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Token   string `json:"-"`
	Subject string `json:"subject,omitempty"`
}

// GuestSession is the downgraded form of any session that failed validation.
func GuestSession(id string) Session {
	return Session{ID: id, Role: RoleGuest}
}

// Expired reports a privileged role held without a token.
func (s Session) Expired() bool {
	return s.Role.Privileged() && s.Token == ""
}

// Authenticated reports a privileged role backed by a token.
func (s Session) Authenticated() bool {
	return s.Role.Privileged() && s.Token != ""
}

// Credentials carries login input. Admins log in by username, everyone else
// by email.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// NavLink is a single entry of the role header.
type NavLink struct {
	Label  string `json:"label"`
	Href   string `json:"href,omitempty"`
	Action string `json:"action,omitempty"`
}
