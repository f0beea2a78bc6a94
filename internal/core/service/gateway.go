package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
	"github.com/smartclinic/clinic-portal/internal/pkg/metrics"
)

const (
	defaultConfirmTTL = 2 * time.Minute
	// tombstoneTTL keeps completed confirmations recognisable for late retries.
	tombstoneTTL = 10 * time.Minute

	auditAddDoctor = domain.ActionKind("add_doctor")
	auditConfirm   = domain.ActionKind("confirm")
	auditCancel    = domain.ActionKind("cancel")
)

// Gateway executes composed actions. Authorization is re-checked against the
// session on every call before anything reaches the backend.
type Gateway struct {
	doctors    ports.DoctorAPI
	patients   ports.PatientAPI
	confirms   ports.ConfirmationStore
	audit      ports.AuditSink
	confirmTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func NewGateway(
	doctors ports.DoctorAPI,
	patients ports.PatientAPI,
	confirms ports.ConfirmationStore,
	audit ports.AuditSink,
	confirmTTL time.Duration,
	log zerolog.Logger,
) *Gateway {
	if confirmTTL <= 0 {
		confirmTTL = defaultConfirmTTL
	}
	return &Gateway{
		doctors:    doctors,
		patients:   patients,
		confirms:   confirms,
		audit:      audit,
		confirmTTL: confirmTTL,
		now:        time.Now,
		log:        log,
	}
}

// authorize checks both the capability the descriptor declares and the floor
// its kind requires.
func authorize(session domain.Session, required ...domain.Capability) error {
	for _, c := range required {
		if c == domain.CapabilityNone {
			continue
		}
		if session.Expired() {
			return domain.SessionExpiredFailure()
		}
		if !c.SatisfiedBy(session, "") {
			return domain.NewFailure(domain.ErrUnauthorized, "You are not authorized to perform this action.")
		}
	}
	return nil
}

// Invoke runs action for session. Delete only arms the action; Confirm
// performs it.
func (g *Gateway) Invoke(ctx context.Context, action domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error) {
	if action.Kind == domain.ActionBook {
		out, err := g.book(ctx, action, session)
		g.record(session, action.Kind, action.DoctorID, out, err)
		return out, err
	}

	if err := g.authorizeAction(action, session); err != nil {
		g.record(session, action.Kind, action.DoctorID, nil, err)
		return nil, err
	}

	var (
		out *domain.Outcome
		err error
	)
	switch action.Kind {
	case domain.ActionDelete:
		out, err = g.arm(ctx, action, session)
	case domain.ActionBookPrompt:
		out = &domain.Outcome{
			Action:   action.Kind,
			Status:   domain.OutcomePrompted,
			Prompt:   "Please log in to book an appointment.",
			DoctorID: action.DoctorID,
			Refresh:  domain.RefreshNone,
		}
	default:
		err = domain.NewFailure(domain.ErrInvalidInput, fmt.Sprintf("unsupported action %q", action.Kind))
	}
	g.record(session, action.Kind, action.DoctorID, out, err)
	return out, err
}

func (g *Gateway) authorizeAction(action domain.ActionDescriptor, session domain.Session) error {
	declared := action.Capability
	if declared == "" {
		declared = domain.CapabilityAdmin
	}
	if declared == domain.CapabilityOwner {
		if err := authorize(session, domain.CapabilityAuthenticated); err != nil {
			return err
		}
		if !declared.SatisfiedBy(session, action.OwnerID) {
			return domain.NewFailure(domain.ErrUnauthorized, "You are not authorized to perform this action.")
		}
		return authorize(session, action.Kind.MinimumCapability())
	}
	return authorize(session, declared, action.Kind.MinimumCapability())
}

func (g *Gateway) arm(ctx context.Context, action domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error) {
	if action.DoctorID == "" {
		return nil, domain.NewFailure(domain.ErrInvalidInput, "doctor id is required")
	}

	pending := domain.PendingAction{
		Token:      uuid.NewString(),
		SessionID:  session.ID,
		Kind:       action.Kind,
		DoctorID:   action.DoctorID,
		DoctorName: action.DoctorName,
	}
	if err := g.confirms.Arm(ctx, pending, g.confirmTTL); err != nil {
		return nil, fmt.Errorf("arm %s: %w", action.Kind, err)
	}

	name := action.DoctorName
	if name == "" {
		name = "this doctor"
	} else if !strings.HasPrefix(name, "Dr.") {
		name = "Dr. " + name
	}
	return &domain.Outcome{
		Action:       action.Kind,
		Status:       domain.OutcomeArmed,
		Prompt:       fmt.Sprintf("Are you sure you want to delete %s?", name),
		ConfirmToken: pending.Token,
		DoctorID:     action.DoctorID,
		Refresh:      domain.RefreshNone,
	}, nil
}

// Confirm performs an armed action. Each arm is consumed at most once: a
// repeated confirmation fails with NotFound without reaching the backend.
func (g *Gateway) Confirm(ctx context.Context, token string, session domain.Session) (*domain.Outcome, error) {
	out, doctorID, err := g.confirm(ctx, token, session)
	g.record(session, auditConfirm, doctorID, out, err)
	return out, err
}

func (g *Gateway) confirm(ctx context.Context, token string, session domain.Session) (*domain.Outcome, string, error) {
	if err := authorize(session, domain.CapabilityAdmin); err != nil {
		return nil, "", err
	}

	pending, err := g.confirms.Take(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		msg := "This confirmation has expired. Please try again."
		if done, derr := g.confirms.Done(ctx, token); derr == nil && done {
			msg = "Doctor has already been deleted."
		}
		return nil, "", domain.NewFailure(domain.ErrNotFound, msg)
	}
	if err != nil {
		return nil, "", fmt.Errorf("confirm: %w", err)
	}

	if pending.SessionID != session.ID {
		g.restore(ctx, *pending)
		return nil, pending.DoctorID, domain.NewFailure(domain.ErrUnauthorized, "This confirmation belongs to another session.")
	}
	if pending.Kind != domain.ActionDelete {
		return nil, pending.DoctorID, domain.NewFailure(domain.ErrInvalidInput, fmt.Sprintf("action %q cannot be confirmed", pending.Kind))
	}

	msg, err := g.doctors.DeleteDoctor(ctx, session.Token, pending.DoctorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			g.markDone(ctx, token)
			return nil, pending.DoctorID, domain.AsFailure(err, "Doctor not found.")
		}
		g.restore(ctx, *pending)
		g.log.Warn().Err(err).Str("doctor_id", pending.DoctorID).Msg("delete doctor failed")
		if errors.Is(err, domain.ErrNetworkFailure) {
			return nil, pending.DoctorID, domain.AsFailure(err, "An error occurred while deleting the doctor.")
		}
		return nil, pending.DoctorID, domain.AsFailure(err, "Failed to delete doctor.")
	}

	g.markDone(ctx, token)
	if msg == "" {
		msg = "Doctor deleted successfully!"
	}
	g.log.Info().Str("session_id", session.ID).Str("doctor_id", pending.DoctorID).Msg("doctor deleted")
	return &domain.Outcome{
		Action:   domain.ActionDelete,
		Status:   domain.OutcomeSucceeded,
		Message:  msg,
		DoctorID: pending.DoctorID,
		Refresh:  domain.RefreshRemoveCard,
	}, pending.DoctorID, nil
}

func (g *Gateway) restore(ctx context.Context, pending domain.PendingAction) {
	if err := g.confirms.Arm(ctx, pending, g.confirmTTL); err != nil {
		g.log.Warn().Err(err).Str("doctor_id", pending.DoctorID).Msg("failed to restore armed action")
	}
}

func (g *Gateway) markDone(ctx context.Context, token string) {
	if err := g.confirms.MarkDone(ctx, token, tombstoneTTL); err != nil {
		g.log.Warn().Err(err).Msg("failed to record confirmation tombstone")
	}
}

// Cancel drops an armed action owned by session.
func (g *Gateway) Cancel(ctx context.Context, token string, session domain.Session) error {
	pending, err := g.confirms.Take(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	if pending.SessionID != session.ID {
		g.restore(ctx, *pending)
		err := domain.NewFailure(domain.ErrUnauthorized, "This confirmation belongs to another session.")
		g.record(session, auditCancel, pending.DoctorID, nil, err)
		return err
	}
	g.record(session, auditCancel, pending.DoctorID, &domain.Outcome{Status: domain.OutcomeSucceeded}, nil)
	return nil
}

// book walks the booking state machine. The session is checked before the
// profile request is dispatched.
func (g *Gateway) book(ctx context.Context, action domain.ActionDescriptor, session domain.Session) (*domain.Outcome, error) {
	b := domain.NewBooking(action.DoctorID, action.DoctorName)
	_ = b.Advance(domain.BookingAuthorizing)

	if err := g.authorizeAction(action, session); err != nil {
		_ = b.Advance(domain.BookingRejected)
		metrics.BookingStatesTotal.WithLabelValues(string(b.State)).Inc()
		f := domain.AsFailure(err, "Session expired. Please log in again.")
		f.State = b.State
		if f.Redirect == "" {
			f.Redirect = "/"
		}
		return nil, f
	}
	_ = b.Advance(domain.BookingAuthorized)
	_ = b.Advance(domain.BookingDispatched)

	patient, err := g.patients.PatientMe(ctx, session.Token)
	if err == nil && patient == nil {
		err = domain.NewFailure(domain.ErrNotFound, "Patient profile not found.")
	}
	if err != nil {
		_ = b.Advance(domain.BookingFailed)
		metrics.BookingStatesTotal.WithLabelValues(string(b.State)).Inc()
		g.log.Warn().Err(err).Str("doctor_id", action.DoctorID).Msg("booking failed")
		f := domain.AsFailure(err, "Unable to load booking modal. Try again later.")
		f.Message = "Unable to load booking modal. Try again later."
		f.State = b.State
		return nil, f
	}

	b.Patient = patient
	_ = b.Advance(domain.BookingSucceeded)
	metrics.BookingStatesTotal.WithLabelValues(string(b.State)).Inc()
	return &domain.Outcome{
		Action:   domain.ActionBook,
		Status:   domain.OutcomeSucceeded,
		DoctorID: action.DoctorID,
		Refresh:  domain.RefreshBookingOverlay,
		Booking:  b,
	}, nil
}

// AddDoctor registers a doctor on behalf of an admin session.
func (g *Gateway) AddDoctor(ctx context.Context, session domain.Session, doctor domain.NewDoctor) (*domain.Outcome, error) {
	out, err := g.addDoctor(ctx, session, doctor)
	g.record(session, auditAddDoctor, "", out, err)
	return out, err
}

func (g *Gateway) addDoctor(ctx context.Context, session domain.Session, doctor domain.NewDoctor) (*domain.Outcome, error) {
	if err := authorize(session, domain.CapabilityAdmin); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.NewFailure(domain.ErrUnauthorized, "You are not authorized. Please log in as admin.")
		}
		return nil, err
	}
	if strings.TrimSpace(doctor.Name) == "" || strings.TrimSpace(doctor.Email) == "" || doctor.Password == "" {
		return nil, domain.NewFailure(domain.ErrInvalidInput, "name, email and password are required")
	}

	msg, err := g.doctors.AddDoctor(ctx, session.Token, doctor)
	if err != nil {
		g.log.Warn().Err(err).Str("email", doctor.Email).Msg("add doctor failed")
		if errors.Is(err, domain.ErrNetworkFailure) {
			return nil, domain.AsFailure(err, "An unexpected error occurred while adding doctor.")
		}
		return nil, domain.AsFailure(err, "Failed to add doctor. Please try again.")
	}
	if msg == "" {
		msg = "Doctor added successfully!"
	}
	return &domain.Outcome{
		Action:  auditAddDoctor,
		Status:  domain.OutcomeSucceeded,
		Message: msg,
		Refresh: domain.RefreshReloadList,
	}, nil
}

func (g *Gateway) record(session domain.Session, action domain.ActionKind, doctorID string, out *domain.Outcome, err error) {
	outcome := domain.KindLabel(err)
	if err == nil && out != nil {
		outcome = string(out.Status)
	}
	metrics.GatewayInvocationsTotal.WithLabelValues(string(action), outcome).Inc()

	if g.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		SessionID: session.ID,
		Role:      session.Role,
		Action:    action,
		DoctorID:  doctorID,
		Outcome:   outcome,
		At:        g.now().UTC(),
	}
	if err != nil {
		entry.FailureKind = outcome
		entry.Outcome = "failed"
	}
	g.audit.Record(entry)
}
