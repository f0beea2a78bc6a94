package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

const (
	EmptyAppointments        = "No appointments found for the selected date."
	UnauthorizedAppointments = "Unauthorized access. Please log in again."
)

// AppointmentBoard loads the appointment table of a doctor or a signed-in
// patient. Loads are sequenced per session like doctor lists.
type AppointmentBoard struct {
	api   ports.PatientAPI
	views *Sequencer[domain.AppointmentBoardView]
	now   func() time.Time
	log   zerolog.Logger
}

func NewAppointmentBoard(api ports.PatientAPI, log zerolog.Logger) *AppointmentBoard {
	return &AppointmentBoard{
		api:   api,
		views: NewSequencer[domain.AppointmentBoardView]("appointments"),
		now:   time.Now,
		log:   log,
	}
}

// Load returns the appointments of query.Date (today when empty). Name or
// Condition switch to the backend filter; otherwise the session owner's
// appointments are listed.
func (b *AppointmentBoard) Load(ctx context.Context, session domain.Session, query domain.AppointmentQuery) (domain.AppointmentBoardView, error) {
	if session.Expired() {
		return domain.AppointmentBoardView{}, domain.SessionExpiredFailure()
	}
	scope := session.Role.AppointmentScope()
	if scope == "" || !session.Authenticated() {
		return domain.AppointmentBoardView{}, domain.NewFailure(domain.ErrUnauthorized, UnauthorizedAppointments)
	}

	date := strings.TrimSpace(query.Date)
	if date == "" {
		date = b.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return domain.AppointmentBoardView{}, domain.NewFailure(domain.ErrInvalidInput, "date must be formatted as YYYY-MM-DD")
	}

	ticket, qctx, release := b.views.Begin(ctx, session.ID)
	defer release()

	appointments, err := b.fetch(qctx, session, query)
	if err != nil {
		if qctx.Err() != nil && ctx.Err() == nil {
			current, _ := b.views.Current(session.ID)
			current.Stale = true
			return current, nil
		}
		b.log.Warn().Err(err).Str("session_id", session.ID).Msg("appointment load failed")
		return domain.AppointmentBoardView{}, domain.AsFailure(err, "Failed to load appointments. Please try again later.")
	}

	view := domain.AppointmentBoardView{Date: date, Appointments: make([]domain.Appointment, 0, len(appointments)), Seq: ticket.Seq}
	for _, a := range appointments {
		if d := a.Date(); d == "" || d == date {
			view.Appointments = append(view.Appointments, a)
		}
	}
	if len(view.Appointments) == 0 {
		view.Empty = EmptyAppointments
	}

	current, applied := b.views.Commit(ticket, view)
	if !applied {
		current.Stale = true
	}
	return current, nil
}

func (b *AppointmentBoard) fetch(ctx context.Context, session domain.Session, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	name := strings.TrimSpace(query.Name)
	condition := strings.TrimSpace(query.Condition)
	if name != "" || condition != "" {
		return b.api.FilterAppointments(ctx, session.Token, ports.AppointmentFilter{Condition: condition, Name: name})
	}

	ownerID := session.Subject
	if session.Role == domain.RoleLoggedPatient {
		patient, err := b.api.PatientMe(ctx, session.Token)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, domain.NewFailure(domain.ErrNotFound, "Patient profile not found.")
		}
		ownerID = patient.ID
	}
	if ownerID == "" {
		return nil, domain.NewFailure(domain.ErrUnauthorized, UnauthorizedAppointments)
	}
	return b.api.ListAppointments(ctx, session.Token, session.Role.AppointmentScope(), ownerID)
}

// Unmount cancels in-flight loads for the session and forgets its table.
func (b *AppointmentBoard) Unmount(sessionID string) {
	b.views.Unmount(sessionID)
}
