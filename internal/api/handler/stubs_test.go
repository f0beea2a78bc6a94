package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/api/middleware"
	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

type stubSessionService struct {
	newFn           func() domain.Session
	resolveFn       func(id string) (domain.Session, error)
	loginFn         func(id string, role domain.Role, creds domain.Credentials) (domain.Session, error)
	logoutFn        func(id string) error
	logoutPatientFn func(id string) (domain.Session, error)
	selectRoleFn    func(id string, role domain.Role) (domain.Session, error)
	signupFn        func(req domain.SignupRequest) (string, error)
}

func (s *stubSessionService) New(context.Context) domain.Session { return s.newFn() }
func (s *stubSessionService) Resolve(_ context.Context, id string) (domain.Session, error) {
	return s.resolveFn(id)
}
func (s *stubSessionService) Login(_ context.Context, id string, role domain.Role, creds domain.Credentials) (domain.Session, error) {
	return s.loginFn(id, role, creds)
}
func (s *stubSessionService) Logout(_ context.Context, id string) error { return s.logoutFn(id) }
func (s *stubSessionService) LogoutPatient(_ context.Context, id string) (domain.Session, error) {
	return s.logoutPatientFn(id)
}
func (s *stubSessionService) SelectRole(_ context.Context, id string, role domain.Role) (domain.Session, error) {
	return s.selectRoleFn(id, role)
}
func (s *stubSessionService) Signup(_ context.Context, req domain.SignupRequest) (string, error) {
	return s.signupFn(req)
}

type stubDirectory struct {
	loadFn       func(session domain.Session, f ports.DoctorFilter) (domain.DoctorListView, error)
	currentFn    func(id string) (domain.DoctorListView, bool)
	findActionFn func(id, doctorID string, kind domain.ActionKind) (domain.ActionDescriptor, error)
	removeCardFn func(id, doctorID string) (domain.DoctorListView, bool)
	unmounted    []string
	loads        int
}

func (s *stubDirectory) Load(_ context.Context, session domain.Session, f ports.DoctorFilter) (domain.DoctorListView, error) {
	s.loads++
	return s.loadFn(session, f)
}
func (s *stubDirectory) Current(id string) (domain.DoctorListView, bool) { return s.currentFn(id) }
func (s *stubDirectory) FindAction(id, doctorID string, kind domain.ActionKind) (domain.ActionDescriptor, error) {
	return s.findActionFn(id, doctorID, kind)
}
func (s *stubDirectory) RemoveCard(id, doctorID string) (domain.DoctorListView, bool) {
	return s.removeCardFn(id, doctorID)
}
func (s *stubDirectory) Unmount(id string) { s.unmounted = append(s.unmounted, id) }

type stubGateway struct {
	invokeFn    func(action domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error)
	confirmFn   func(token string, session domain.Session) (*domain.Outcome, error)
	cancelFn    func(token string, session domain.Session) error
	addDoctorFn func(session domain.Session, d domain.NewDoctor) (*domain.Outcome, error)
}

func (s *stubGateway) Invoke(_ context.Context, a domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error) {
	return s.invokeFn(a, session)
}
func (s *stubGateway) Confirm(_ context.Context, token string, session domain.Session) (*domain.Outcome, error) {
	return s.confirmFn(token, session)
}
func (s *stubGateway) Cancel(_ context.Context, token string, session domain.Session) error {
	return s.cancelFn(token, session)
}
func (s *stubGateway) AddDoctor(_ context.Context, session domain.Session, d domain.NewDoctor) (*domain.Outcome, error) {
	return s.addDoctorFn(session, d)
}

type stubBoard struct {
	loadFn    func(session domain.Session, q domain.AppointmentQuery) (domain.AppointmentBoardView, error)
	unmounted []string
}

func (s *stubBoard) Load(_ context.Context, session domain.Session, q domain.AppointmentQuery) (domain.AppointmentBoardView, error) {
	return s.loadFn(session, q)
}
func (s *stubBoard) Unmount(id string) { s.unmounted = append(s.unmounted, id) }

var (
	_ ports.SessionService   = (*stubSessionService)(nil)
	_ ports.DoctorDirectory  = (*stubDirectory)(nil)
	_ ports.ActionGateway    = (*stubGateway)(nil)
	_ ports.AppointmentBoard = (*stubBoard)(nil)
)

// newContext builds an echo context with the validator registered and,
// when session is non-nil, the resolved session already set.
func newContext(method, target string, body io.Reader, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if session != nil && session.ID != "" {
		req.Header.Set(middleware.HeaderSessionID, session.ID)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session != nil {
		c.Set(middleware.ContextSession, *session)
	}
	return c, rec
}
