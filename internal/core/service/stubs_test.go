package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// stubClinicAPI implements ports.ClinicAPI with per-method hooks. Calls are
// counted so tests can assert the backend was never reached.
type stubClinicAPI struct {
	mu    sync.Mutex
	calls map[string]int

	listDoctorsFn        func(ctx context.Context) ([]domain.DoctorRecord, error)
	filterDoctorsFn      func(ctx context.Context, f ports.DoctorFilter) ([]domain.DoctorRecord, error)
	addDoctorFn          func(ctx context.Context, token string, d domain.NewDoctor) (string, error)
	deleteDoctorFn       func(ctx context.Context, token, id string) (string, error)
	adminLoginFn         func(ctx context.Context, username, password string) (string, error)
	doctorLoginFn        func(ctx context.Context, email, password string) (string, error)
	patientLoginFn       func(ctx context.Context, email, password string) (string, error)
	patientSignupFn      func(ctx context.Context, req domain.SignupRequest) (string, error)
	patientMeFn          func(ctx context.Context, token string) (*domain.Patient, error)
	listAppointmentsFn   func(ctx context.Context, token, scope, id string) ([]domain.Appointment, error)
	filterAppointmentsFn func(ctx context.Context, token string, f ports.AppointmentFilter) ([]domain.Appointment, error)
}

func (s *stubClinicAPI) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubClinicAPI) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubClinicAPI) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *stubClinicAPI) ListDoctors(ctx context.Context) ([]domain.DoctorRecord, error) {
	s.hit("ListDoctors")
	return s.listDoctorsFn(ctx)
}

func (s *stubClinicAPI) FilterDoctors(ctx context.Context, f ports.DoctorFilter) ([]domain.DoctorRecord, error) {
	s.hit("FilterDoctors")
	return s.filterDoctorsFn(ctx, f)
}

func (s *stubClinicAPI) AddDoctor(ctx context.Context, token string, d domain.NewDoctor) (string, error) {
	s.hit("AddDoctor")
	return s.addDoctorFn(ctx, token, d)
}

func (s *stubClinicAPI) DeleteDoctor(ctx context.Context, token, id string) (string, error) {
	s.hit("DeleteDoctor")
	return s.deleteDoctorFn(ctx, token, id)
}

func (s *stubClinicAPI) AdminLogin(ctx context.Context, username, password string) (string, error) {
	s.hit("AdminLogin")
	return s.adminLoginFn(ctx, username, password)
}

func (s *stubClinicAPI) DoctorLogin(ctx context.Context, email, password string) (string, error) {
	s.hit("DoctorLogin")
	return s.doctorLoginFn(ctx, email, password)
}

func (s *stubClinicAPI) PatientLogin(ctx context.Context, email, password string) (string, error) {
	s.hit("PatientLogin")
	return s.patientLoginFn(ctx, email, password)
}

func (s *stubClinicAPI) PatientSignup(ctx context.Context, req domain.SignupRequest) (string, error) {
	s.hit("PatientSignup")
	return s.patientSignupFn(ctx, req)
}

func (s *stubClinicAPI) PatientMe(ctx context.Context, token string) (*domain.Patient, error) {
	s.hit("PatientMe")
	return s.patientMeFn(ctx, token)
}

func (s *stubClinicAPI) ListAppointments(ctx context.Context, token, scope, id string) ([]domain.Appointment, error) {
	s.hit("ListAppointments")
	return s.listAppointmentsFn(ctx, token, scope, id)
}

func (s *stubClinicAPI) FilterAppointments(ctx context.Context, token string, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	s.hit("FilterAppointments")
	return s.filterAppointmentsFn(ctx, token, f)
}

// stubSessionStore is an in-memory ports.SessionStore.
type stubSessionStore struct {
	mu      sync.Mutex
	roles   map[string]string
	tokens  map[string]string
	cleared int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{roles: map[string]string{}, tokens: map[string]string{}}
}

func (s *stubSessionStore) Load(_ context.Context, id string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[id], s.tokens[id], nil
}

func (s *stubSessionStore) Save(_ context.Context, id, role, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == "" {
		delete(s.roles, id)
	} else {
		s.roles[id] = role
	}
	if token == "" {
		delete(s.tokens, id)
	} else {
		s.tokens[id] = token
	}
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, id)
	delete(s.tokens, id)
	s.cleared++
	return nil
}

// stubConfirmStore is an in-memory ports.ConfirmationStore.
type stubConfirmStore struct {
	mu    sync.Mutex
	armed map[string]domain.PendingAction
	done  map[string]bool
}

func newStubConfirmStore() *stubConfirmStore {
	return &stubConfirmStore{armed: map[string]domain.PendingAction{}, done: map[string]bool{}}
}

func (s *stubConfirmStore) Arm(_ context.Context, a domain.PendingAction, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[a.Token] = a
	return nil
}

func (s *stubConfirmStore) Take(_ context.Context, token string) (*domain.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.armed[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.armed, token)
	return &a, nil
}

func (s *stubConfirmStore) MarkDone(_ context.Context, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[token] = true
	return nil
}

func (s *stubConfirmStore) Done(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[token], nil
}

func (s *stubConfirmStore) isArmed(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.armed[token]
	return ok
}

type stubAuditSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *stubAuditSink) Record(e domain.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *stubAuditSink) all() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.entries...)
}

// signedToken builds an HS256 JWT with claims. The portal never verifies
// signatures, so the key is irrelevant.
func signedToken(claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		panic(err)
	}
	return tok
}

func adminSession() domain.Session {
	return domain.Session{ID: "s-admin", Role: domain.RoleAdmin, Token: "admin-token"}
}

func loggedPatientSession() domain.Session {
	return domain.Session{ID: "s-patient", Role: domain.RoleLoggedPatient, Token: "patient-token"}
}

func sampleDoctors() []domain.DoctorRecord {
	return []domain.DoctorRecord{
		{ID: "1", Name: "Dr. Ana", Specialization: "Cardiology", Email: "ana@clinic.io", Availability: []string{"09:00-10:00"}},
		{ID: "2", Name: "Dr. Ben", Specialization: "Dermatology"},
	}
}

var _ ports.ClinicAPI = (*stubClinicAPI)(nil)
