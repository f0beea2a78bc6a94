package domain

// Capability is the minimum role/authentication level an action requires.
type Capability string

const (
	CapabilityNone          Capability = "none"
	CapabilityAuthenticated Capability = "authenticated"
	CapabilityOwner         Capability = "owner"
	CapabilityAdmin         Capability = "admin"
)

// SatisfiedBy reports whether s holds capability c. ownerID is only
// consulted for CapabilityOwner.
func (c Capability) SatisfiedBy(s Session, ownerID string) bool {
	switch c {
	case CapabilityNone:
		return true
	case CapabilityAuthenticated:
		return s.Authenticated()
	case CapabilityOwner:
		return s.Authenticated() && ownerID != "" && s.Subject == ownerID
	case CapabilityAdmin:
		return s.Authenticated() && s.Role == RoleAdmin
	default:
		return false
	}
}

// ActionKind names the command an ActionDescriptor carries.
type ActionKind string

const (
	ActionDelete     ActionKind = "delete"
	ActionBookPrompt ActionKind = "book_prompt"
	ActionBook       ActionKind = "book"
)

// MinimumCapability is the floor the gateway enforces for a kind regardless
// of what the descriptor declares.
func (k ActionKind) MinimumCapability() Capability {
	switch k {
	case ActionDelete:
		return CapabilityAdmin
	case ActionBook:
		return CapabilityAuthenticated
	case ActionBookPrompt:
		return CapabilityNone
	default:
		return CapabilityAdmin
	}
}

// ActionDescriptor is an offerable UI action paired with the capability it
// requires. Descriptors are produced by the composer and executed by the
// gateway.
type ActionDescriptor struct {
	Kind       ActionKind `json:"kind"`
	Label      string     `json:"label"`
	Capability Capability `json:"capability"`
	DoctorID   string     `json:"doctor_id"`
	DoctorName string     `json:"doctor_name,omitempty"`
	OwnerID    string     `json:"owner_id,omitempty"`
}

// PendingAction is an armed two-step action awaiting confirmation.
type PendingAction struct {
	Token      string     `json:"token"`
	SessionID  string     `json:"session_id"`
	Kind       ActionKind `json:"kind"`
	DoctorID   string     `json:"doctor_id"`
	DoctorName string     `json:"doctor_name,omitempty"`
}

// OutcomeStatus is the non-failure result of a gateway call.
type OutcomeStatus string

const (
	OutcomeArmed     OutcomeStatus = "armed"
	OutcomePrompted  OutcomeStatus = "prompted"
	OutcomeSucceeded OutcomeStatus = "succeeded"
)

// Refresh tells the caller which part of the view to update.
type Refresh string

const (
	RefreshNone           Refresh = "none"
	RefreshRemoveCard     Refresh = "remove_card"
	RefreshReloadList     Refresh = "reload_list"
	RefreshBookingOverlay Refresh = "booking_overlay"
)

// Outcome is a successful gateway result.
type Outcome struct {
	Action       ActionKind    `json:"action"`
	Status       OutcomeStatus `json:"status"`
	Message      string        `json:"message,omitempty"`
	Prompt       string        `json:"prompt,omitempty"`
	ConfirmToken string        `json:"confirm_token,omitempty"`
	DoctorID     string        `json:"doctor_id,omitempty"`
	Refresh      Refresh       `json:"refresh"`
	Booking      *Booking      `json:"booking,omitempty"`
}
