package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSessionExpired    = errors.New("session expired")
	ErrNetworkFailure    = errors.New("network failure")
	ErrRejectedByBackend = errors.New("rejected by backend")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid booking transition")
)

// Failure is an error carrying a user-displayable message. Kind is one of
// the sentinels above and is reachable through errors.Is.
type Failure struct {
	Kind    error
	Message string
	// Redirect is set when the caller must navigate away, e.g. to re-authenticate.
	Redirect string
	// Status is the backend HTTP status for RejectedByBackend, 0 otherwise.
	Status int
	// State is the booking state reached when the failure ended a booking.
	State BookingState
	Cause error
}

func NewFailure(kind error, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// SessionExpiredFailure is the only failure that forces navigation.
func SessionExpiredFailure() *Failure {
	return &Failure{
		Kind:     ErrSessionExpired,
		Message:  "Session expired or invalid login. Please log in again.",
		Redirect: "/",
	}
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Kind != nil {
		return f.Kind.Error()
	}
	return "failure"
}

func (f *Failure) Unwrap() []error {
	errs := make([]error, 0, 2)
	if f.Kind != nil {
		errs = append(errs, f.Kind)
	}
	if f.Cause != nil {
		errs = append(errs, f.Cause)
	}
	return errs
}

// AsFailure returns err as a *Failure, falling back to message when err
// carries none. Errors that are not failures become NetworkFailure only if
// they already wrap it; everything else is kept as the cause of a
// RejectedByBackend failure.
func AsFailure(err error, message string) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		out := *f
		if out.Message == "" || errors.Is(out.Kind, ErrNetworkFailure) {
			out.Message = message
		}
		return &out
	}
	kind := ErrRejectedByBackend
	if errors.Is(err, ErrNetworkFailure) {
		kind = ErrNetworkFailure
	}
	return &Failure{Kind: kind, Message: message, Cause: err}
}

// KindLabel names the failure kind of err for logs, metrics and audit.
func KindLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNetworkFailure):
		return "network_failure"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRejectedByBackend):
		return "rejected_by_backend"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "internal"
	}
}
