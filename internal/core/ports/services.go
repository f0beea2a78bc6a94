package ports

import (
	"context"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// SessionService resolves and mutates sessions.
type SessionService interface {
	New(ctx context.Context) domain.Session
	Resolve(ctx context.Context, sessionID string) (domain.Session, error)
	Login(ctx context.Context, sessionID string, role domain.Role, creds domain.Credentials) (domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutPatient(ctx context.Context, sessionID string) (domain.Session, error)
	SelectRole(ctx context.Context, sessionID string, role domain.Role) (domain.Session, error)
	Signup(ctx context.Context, req domain.SignupRequest) (string, error)
}

// ActionGateway executes composed actions after re-checking authorization.
type ActionGateway interface {
	Invoke(ctx context.Context, action domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error)
	Confirm(ctx context.Context, token string, session domain.Session) (*domain.Outcome, error)
	Cancel(ctx context.Context, token string, session domain.Session) error
	AddDoctor(ctx context.Context, session domain.Session, doctor domain.NewDoctor) (*domain.Outcome, error)
}

// DoctorDirectory loads doctor lists into a session's doctor view.
type DoctorDirectory interface {
	Load(ctx context.Context, session domain.Session, filter DoctorFilter) (domain.DoctorListView, error)
	Current(sessionID string) (domain.DoctorListView, bool)
	FindAction(sessionID, doctorID string, kind domain.ActionKind) (domain.ActionDescriptor, error)
	RemoveCard(sessionID, doctorID string) (domain.DoctorListView, bool)
	Unmount(sessionID string)
}

// AppointmentBoard loads appointment tables for doctors and patients.
type AppointmentBoard interface {
	Load(ctx context.Context, session domain.Session, query domain.AppointmentQuery) (domain.AppointmentBoardView, error)
	Unmount(sessionID string)
}
