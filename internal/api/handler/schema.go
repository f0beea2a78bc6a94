package handler

import "github.com/smartclinic/clinic-portal/internal/core/domain"

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Session ---

type selectRoleRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=patient"`
}

// loginRequest carries either a username (admin) or an email (doctor,
// patient). Which one is required depends on the path role and is checked
// by the session service.
type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
}

type sessionResponse struct {
	Session    domain.Session   `json:"session"`
	Navigation []domain.NavLink `json:"navigation"`
	Redirect   string           `json:"redirect,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Doctors ---

type addDoctorRequest struct {
	Name         string `json:"name"         validate:"required"`
	Specialty    string `json:"specialty"    validate:"required"`
	Email        string `json:"email"        validate:"required,email"`
	Password     string `json:"password"     validate:"required"`
	Mobile       string `json:"mobile"`
	Availability string `json:"availability"`
}

type outcomeResponse struct {
	Outcome *domain.Outcome        `json:"outcome"`
	View    *domain.DoctorListView `json:"view,omitempty"`
}

// --- Appointments ---

type appointmentQuery struct {
	Date      string `query:"date"      validate:"omitempty,datetime=2006-01-02"`
	Name      string `query:"name"`
	Condition string `query:"condition"`
}

// --- Audit ---

type auditResponse struct {
	SessionID string              `json:"session_id"`
	Entries   []domain.AuditEntry `json:"entries"`
}
