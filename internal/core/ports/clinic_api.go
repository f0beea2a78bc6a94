package ports

import (
	"context"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// DoctorFilter carries the doctor search inputs. Empty fields do not filter.
type DoctorFilter struct {
	Name      string
	Time      string
	Specialty string
}

// IsZero reports whether no filter field is set.
func (f DoctorFilter) IsZero() bool {
	return f.Name == "" && f.Time == "" && f.Specialty == ""
}

// AppointmentFilter carries the appointment search inputs.
type AppointmentFilter struct {
	Condition string
	Name      string
}

// DoctorAPI is the doctor part of the clinic backend.
type DoctorAPI interface {
	ListDoctors(ctx context.Context) ([]domain.DoctorRecord, error)
	FilterDoctors(ctx context.Context, filter DoctorFilter) ([]domain.DoctorRecord, error)
	// AddDoctor and DeleteDoctor return the backend's message on success.
	AddDoctor(ctx context.Context, token string, doctor domain.NewDoctor) (string, error)
	DeleteDoctor(ctx context.Context, token, id string) (string, error)
}

// AuthAPI is the login and signup part of the clinic backend. Logins return
// the issued token.
type AuthAPI interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	DoctorLogin(ctx context.Context, email, password string) (string, error)
	PatientLogin(ctx context.Context, email, password string) (string, error)
	PatientSignup(ctx context.Context, req domain.SignupRequest) (string, error)
}

// PatientAPI is the patient data and appointment part of the clinic backend.
type PatientAPI interface {
	PatientMe(ctx context.Context, token string) (*domain.Patient, error)
	// ListAppointments returns appointments for the given scope ("patient"
	// or "doctor") and owner id.
	ListAppointments(ctx context.Context, token, scope, id string) ([]domain.Appointment, error)
	FilterAppointments(ctx context.Context, token string, filter AppointmentFilter) ([]domain.Appointment, error)
}

// ClinicAPI is the whole backend collaborator.
type ClinicAPI interface {
	DoctorAPI
	AuthAPI
	PatientAPI
}
