package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
	"github.com/smartclinic/clinic-portal/internal/pkg/metrics"
)

// SessionService is the single reader and writer of persisted session state.
type SessionService struct {
	store ports.SessionStore
	auth  ports.AuthAPI
	now   func() time.Time
	log   zerolog.Logger
}

func NewSessionService(store ports.SessionStore, auth ports.AuthAPI, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, auth: auth, now: time.Now, log: log}
}

// New issues a fresh guest session id. Nothing is persisted until a role is
// selected or a login succeeds.
func (s *SessionService) New(_ context.Context) domain.Session {
	return domain.GuestSession(uuid.NewString())
}

// Resolve reads the persisted role and token once. A privileged role without
// a usable token clears both entries and fails with SessionExpired; the
// returned session is then the guest downgrade.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.GuestSession(""), nil
	}

	tag, token, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return domain.GuestSession(sessionID), fmt.Errorf("resolve session: %w", err)
	}

	session := domain.Session{ID: sessionID, Role: domain.ParseRole(tag), Token: token}
	if !session.Role.Privileged() {
		return session, nil
	}

	subject, expired := s.inspectToken(token)
	if token == "" || expired {
		if err := s.store.Clear(ctx, sessionID); err != nil {
			s.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear expired session")
		}
		metrics.SessionsExpiredTotal.WithLabelValues(session.Role.String()).Inc()
		s.log.Info().
			Str("session_id", sessionID).
			Str("role", session.Role.String()).
			Bool("token_present", token != "").
			Msg("session expired, downgraded to guest")
		return domain.GuestSession(sessionID), domain.SessionExpiredFailure()
	}

	session.Subject = subject
	return session, nil
}

// inspectToken reads the subject and expiry of a JWT without verifying it;
// the backend owns the signing key. Opaque tokens are never expired here.
func (s *SessionService) inspectToken(token string) (subject string, expired bool) {
	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !exp.After(s.now()) {
		return "", true
	}

	switch id := claims["id"].(type) {
	case string:
		subject = id
	case float64:
		subject = strconv.FormatInt(int64(id), 10)
	}
	if subject == "" {
		subject, _ = claims.GetSubject()
	}
	return subject, false
}

// Login authenticates against the backend endpoint for role and persists the
// resulting role tag and token. Patients log in as RoleLoggedPatient.
func (s *SessionService) Login(ctx context.Context, sessionID string, role domain.Role, creds domain.Credentials) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "A session is required to log in.")
	}

	var (
		token string
		err   error
	)
	switch role {
	case domain.RoleAdmin:
		if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
			return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "Please enter both username and password!")
		}
		token, err = s.auth.AdminLogin(ctx, strings.TrimSpace(creds.Username), creds.Password)
	case domain.RoleDoctor:
		if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
			return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "Please enter both email and password!")
		}
		token, err = s.auth.DoctorLogin(ctx, strings.TrimSpace(creds.Email), creds.Password)
	case domain.RolePatient, domain.RoleLoggedPatient:
		role = domain.RoleLoggedPatient
		if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
			return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "Please enter both email and password.")
		}
		token, err = s.auth.PatientLogin(ctx, strings.TrimSpace(creds.Email), creds.Password)
	default:
		return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, fmt.Sprintf("cannot log in as %s", role))
	}

	if err != nil {
		f := loginFailure(err)
		metrics.LoginsTotal.WithLabelValues(role.String(), domain.KindLabel(f)).Inc()
		s.log.Warn().Err(err).Str("role", role.String()).Msg("login failed")
		return domain.Session{}, f
	}
	if token == "" {
		metrics.LoginsTotal.WithLabelValues(role.String(), "rejected_by_backend").Inc()
		return domain.Session{}, domain.NewFailure(domain.ErrRejectedByBackend, "Login failed: no token was issued.")
	}

	if err := s.store.Save(ctx, sessionID, role.Tag(), token); err != nil {
		return domain.Session{}, fmt.Errorf("login: save session: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues(role.String(), "ok").Inc()

	subject, _ := s.inspectToken(token)
	s.log.Info().Str("session_id", sessionID).Str("role", role.String()).Msg("login succeeded")
	return domain.Session{ID: sessionID, Role: role, Token: token, Subject: subject}, nil
}

func loginFailure(err error) *domain.Failure {
	if errors.Is(err, domain.ErrNetworkFailure) {
		return domain.AsFailure(err, "An error occurred during login.")
	}
	f := domain.AsFailure(err, "Invalid credentials! Please try again.")
	f.Message = "Invalid credentials! Please try again."
	return f
}

// Logout clears both persisted entries.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("logged out")
	return nil
}

// LogoutPatient drops the token but keeps the visitor browsing as a patient.
func (s *SessionService) LogoutPatient(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "A session is required.")
	}
	if err := s.store.Save(ctx, sessionID, domain.TagPatient, ""); err != nil {
		return domain.Session{}, fmt.Errorf("logout patient: %w", err)
	}
	return domain.Session{ID: sessionID, Role: domain.RolePatient}, nil
}

// SelectRole sets the browsing role of an anonymous visitor. Privileged roles
// are only reachable through Login.
func (s *SessionService) SelectRole(ctx context.Context, sessionID string, role domain.Role) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, domain.NewFailure(domain.ErrInvalidInput, "A session is required.")
	}
	switch role {
	case domain.RoleGuest:
		if err := s.store.Clear(ctx, sessionID); err != nil {
			return domain.Session{}, fmt.Errorf("select role: %w", err)
		}
	case domain.RolePatient:
		if err := s.store.Save(ctx, sessionID, role.Tag(), ""); err != nil {
			return domain.Session{}, fmt.Errorf("select role: %w", err)
		}
	default:
		return domain.Session{}, domain.NewFailure(domain.ErrUnauthorized, fmt.Sprintf("role %s requires login", role))
	}
	return domain.Session{ID: sessionID, Role: role}, nil
}

// Signup registers a patient. It does not log the patient in.
func (s *SessionService) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" ||
		strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Address) == "" {
		return "", domain.NewFailure(domain.ErrInvalidInput, "Please fill in all required fields.")
	}

	msg, err := s.auth.PatientSignup(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).Msg("patient signup failed")
		if errors.Is(err, domain.ErrNetworkFailure) {
			return "", domain.AsFailure(err, "An error occurred during signup.")
		}
		return "", domain.AsFailure(err, "Signup failed. Please try again.")
	}
	if msg == "" {
		msg = "Signup successful!"
	}
	return msg, nil
}
