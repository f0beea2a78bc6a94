package domain

import "time"

// AuditEntry records one gateway invocation and how it ended.
type AuditEntry struct {
	SessionID   string     `json:"session_id"`
	Role        Role       `json:"role"`
	Action      ActionKind `json:"action"`
	DoctorID    string     `json:"doctor_id,omitempty"`
	Outcome     string     `json:"outcome"`
	FailureKind string     `json:"failure_kind,omitempty"`
	At          time.Time  `json:"at"`
}
