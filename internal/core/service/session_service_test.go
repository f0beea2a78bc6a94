package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

func newSessionSvc(store *stubSessionStore, api *stubClinicAPI) *SessionService {
	return NewSessionService(store, api, zerolog.Nop())
}

func TestSessionService_New_IssuesGuestSession(t *testing.T) {
	svc := newSessionSvc(newStubSessionStore(), &stubClinicAPI{})
	a := svc.New(context.Background())
	b := svc.New(context.Background())
	if a.Role != domain.RoleGuest || a.ID == "" {
		t.Fatalf("unexpected session %+v", a)
	}
	if a.ID == b.ID {
		t.Fatalf("session ids must be unique")
	}
}

func TestSessionService_Resolve_EmptyIDIsGuest(t *testing.T) {
	svc := newSessionSvc(newStubSessionStore(), &stubClinicAPI{})
	s, err := svc.Resolve(context.Background(), "")
	if err != nil || s.Role != domain.RoleGuest {
		t.Fatalf("expected guest, got %+v %v", s, err)
	}
}

func TestSessionService_Resolve_PrivilegedWithToken(t *testing.T) {
	store := newStubSessionStore()
	token := signedToken(jwt.MapClaims{"id": float64(42), "exp": time.Now().Add(time.Hour).Unix()})
	_ = store.Save(context.Background(), "s1", "doctor", token)

	s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role != domain.RoleDoctor || s.Token != token {
		t.Fatalf("unexpected session %+v", s)
	}
	if s.Subject != "42" {
		t.Fatalf("expected subject 42 from id claim, got %q", s.Subject)
	}
}

func TestSessionService_Resolve_SubjectFallsBackToSub(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "admin", signedToken(jwt.MapClaims{"sub": "admin-7"}))

	s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
	if err != nil || s.Subject != "admin-7" {
		t.Fatalf("expected subject admin-7, got %+v %v", s, err)
	}
}

func TestSessionService_Resolve_PrivilegedWithoutTokenExpires(t *testing.T) {
	for _, tag := range []string{"admin", "doctor", "loggedPatient"} {
		t.Run(tag, func(t *testing.T) {
			store := newStubSessionStore()
			_ = store.Save(context.Background(), "s1", tag, "")

			s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
			if !errors.Is(err, domain.ErrSessionExpired) {
				t.Fatalf("expected ErrSessionExpired, got %v", err)
			}
			var f *domain.Failure
			if !errors.As(err, &f) || f.Redirect != "/" {
				t.Fatalf("expected redirect to /, got %+v", f)
			}
			if s.Role != domain.RoleGuest {
				t.Fatalf("expected guest downgrade, got %v", s.Role)
			}
			if store.cleared != 1 {
				t.Fatalf("expected both entries cleared once, got %d", store.cleared)
			}
			role, token, _ := store.Load(context.Background(), "s1")
			if role != "" || token != "" {
				t.Fatalf("entries not cleared: %q %q", role, token)
			}
		})
	}
}

func TestSessionService_Resolve_ExpiredJWT(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "admin", signedToken(jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}))

	s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
	if !errors.Is(err, domain.ErrSessionExpired) || s.Role != domain.RoleGuest {
		t.Fatalf("expected expiry, got %+v %v", s, err)
	}
}

func TestSessionService_Resolve_OpaqueTokenNeverExpiresLocally(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "loggedPatient", "opaque-token")

	s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
	if err != nil || s.Role != domain.RoleLoggedPatient || s.Subject != "" {
		t.Fatalf("unexpected %+v %v", s, err)
	}
}

func TestSessionService_Resolve_UnknownTag(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "superuser", "")

	s, err := newSessionSvc(store, &stubClinicAPI{}).Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role != domain.RoleUnknown {
		t.Fatalf("expected unknown role, got %v", s.Role)
	}
	if len(ComposeNavigation(s)) != 0 || len(ComposeActions(s, domain.DoctorRecord{ID: "1"})) != 0 {
		t.Fatalf("unknown role must see no navigation and no actions")
	}
}

func TestSessionService_Login_AdminMissingPassword(t *testing.T) {
	api := &stubClinicAPI{}
	_, err := newSessionSvc(newStubSessionStore(), api).Login(context.Background(), "s1", domain.RoleAdmin, domain.Credentials{Username: "root"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "Please enter both username and password!" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if api.total() != 0 {
		t.Fatalf("backend must not be called")
	}
}

func TestSessionService_Login_PatientBecomesLoggedPatient(t *testing.T) {
	store := newStubSessionStore()
	api := &stubClinicAPI{patientLoginFn: func(_ context.Context, email, password string) (string, error) {
		if email != "p@x.io" || password != "pw" {
			t.Fatalf("unexpected credentials %s %s", email, password)
		}
		return "patient-token", nil
	}}

	s, err := newSessionSvc(store, api).Login(context.Background(), "s1", domain.RolePatient, domain.Credentials{Email: " p@x.io ", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role != domain.RoleLoggedPatient || s.Token != "patient-token" {
		t.Fatalf("unexpected session %+v", s)
	}
	role, token, _ := store.Load(context.Background(), "s1")
	if role != "loggedPatient" || token != "patient-token" {
		t.Fatalf("unexpected persisted entries %q %q", role, token)
	}
}

func TestSessionService_Login_BackendRejects(t *testing.T) {
	api := &stubClinicAPI{doctorLoginFn: func(context.Context, string, string) (string, error) {
		return "", &domain.Failure{Kind: domain.ErrRejectedByBackend, Message: "bad password", Status: 401}
	}}
	store := newStubSessionStore()

	_, err := newSessionSvc(store, api).Login(context.Background(), "s1", domain.RoleDoctor, domain.Credentials{Email: "d@x.io", Password: "x"})
	if !errors.Is(err, domain.ErrRejectedByBackend) {
		t.Fatalf("expected ErrRejectedByBackend, got %v", err)
	}
	if err.Error() != "Invalid credentials! Please try again." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if role, _, _ := store.Load(context.Background(), "s1"); role != "" {
		t.Fatalf("failed login must not persist a role")
	}
}

func TestSessionService_Login_NetworkFailure(t *testing.T) {
	api := &stubClinicAPI{adminLoginFn: func(context.Context, string, string) (string, error) {
		return "", &domain.Failure{Kind: domain.ErrNetworkFailure, Message: "dial tcp"}
	}}
	_, err := newSessionSvc(newStubSessionStore(), api).Login(context.Background(), "s1", domain.RoleAdmin, domain.Credentials{Username: "root", Password: "pw"})
	if !errors.Is(err, domain.ErrNetworkFailure) || err.Error() != "An error occurred during login." {
		t.Fatalf("unexpected %v", err)
	}
}

func TestSessionService_LogoutPatient_KeepsBrowsingRole(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "loggedPatient", "tok")

	s, err := newSessionSvc(store, &stubClinicAPI{}).LogoutPatient(context.Background(), "s1")
	if err != nil || s.Role != domain.RolePatient {
		t.Fatalf("unexpected %+v %v", s, err)
	}
	role, token, _ := store.Load(context.Background(), "s1")
	if role != "patient" || token != "" {
		t.Fatalf("unexpected entries %q %q", role, token)
	}
}

func TestSessionService_Logout_ClearsEntries(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Save(context.Background(), "s1", "admin", "tok")

	if err := newSessionSvc(store, &stubClinicAPI{}).Logout(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role, token, _ := store.Load(context.Background(), "s1"); role != "" || token != "" {
		t.Fatalf("entries not cleared")
	}
}

func TestSessionService_SelectRole(t *testing.T) {
	store := newStubSessionStore()
	svc := newSessionSvc(store, &stubClinicAPI{})

	s, err := svc.SelectRole(context.Background(), "s1", domain.RolePatient)
	if err != nil || s.Role != domain.RolePatient {
		t.Fatalf("unexpected %+v %v", s, err)
	}
	if _, err := svc.SelectRole(context.Background(), "s1", domain.RoleAdmin); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("privileged roles need login, got %v", err)
	}
	s, err = svc.SelectRole(context.Background(), "s1", domain.RoleGuest)
	if err != nil || s.Role != domain.RoleGuest {
		t.Fatalf("unexpected %+v %v", s, err)
	}
	if role, _, _ := store.Load(context.Background(), "s1"); role != "" {
		t.Fatalf("guest must clear the role entry, got %q", role)
	}
}

func TestSessionService_Signup(t *testing.T) {
	api := &stubClinicAPI{patientSignupFn: func(_ context.Context, req domain.SignupRequest) (string, error) {
		return "", nil
	}}
	svc := newSessionSvc(newStubSessionStore(), api)

	if _, err := svc.Signup(context.Background(), domain.SignupRequest{Name: "Ann", Email: "a@x.io"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.count("PatientSignup") != 0 {
		t.Fatalf("incomplete signup must not reach backend")
	}

	msg, err := svc.Signup(context.Background(), domain.SignupRequest{Name: "Ann", Email: "a@x.io", Password: "pw", Phone: "555", Address: "Main St"})
	if err != nil || msg != "Signup successful!" {
		t.Fatalf("unexpected %q %v", msg, err)
	}
}
