package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// DoctorDirectory loads doctor lists into each session's doctor view.
type DoctorDirectory struct {
	api   ports.DoctorAPI
	views *Sequencer[domain.DoctorListView]
	log   zerolog.Logger
}

func NewDoctorDirectory(api ports.DoctorAPI, log zerolog.Logger) *DoctorDirectory {
	return &DoctorDirectory{
		api:   api,
		views: NewSequencer[domain.DoctorListView]("doctors"),
		log:   log,
	}
}

// Load fetches all doctors, or the filtered subset when filter is set, and
// commits the rendered list unless a newer query already has. The returned
// view is whatever the session's view shows afterwards; Stale marks that it
// is not this call's result. On failure the view is left untouched.
func (d *DoctorDirectory) Load(ctx context.Context, session domain.Session, filter ports.DoctorFilter) (domain.DoctorListView, error) {
	ticket, qctx, release := d.views.Begin(ctx, session.ID)
	defer release()

	var (
		records []domain.DoctorRecord
		err     error
	)
	filtered := !filter.IsZero()
	if filtered {
		records, err = d.api.FilterDoctors(qctx, filter)
	} else {
		records, err = d.api.ListDoctors(qctx)
	}
	if err != nil {
		if qctx.Err() != nil && ctx.Err() == nil {
			// Unmounted while in flight.
			current, _ := d.views.Current(session.ID)
			current.Stale = true
			return current, nil
		}
		d.log.Warn().Err(err).Str("session_id", session.ID).Bool("filtered", filtered).Msg("doctor list load failed")
		msg := "Failed to load doctors. Please try again later."
		if filtered {
			msg = "An error occurred while filtering doctors. Please try again."
		}
		return domain.DoctorListView{}, domain.AsFailure(err, msg)
	}

	view := RenderDoctorList(session, records, filtered)
	view.Seq = ticket.Seq

	current, applied := d.views.Commit(ticket, view)
	if !applied {
		d.log.Debug().Str("session_id", session.ID).Uint64("seq", ticket.Seq).Msg("stale doctor list discarded")
		current.Stale = true
	}
	return current, nil
}

// Current returns the doctor list the session's view shows.
func (d *DoctorDirectory) Current(sessionID string) (domain.DoctorListView, bool) {
	return d.views.Current(sessionID)
}

// FindAction looks up an action of kind on a card of the session's view.
func (d *DoctorDirectory) FindAction(sessionID, doctorID string, kind domain.ActionKind) (domain.ActionDescriptor, error) {
	view, ok := d.views.Current(sessionID)
	if !ok {
		return domain.ActionDescriptor{}, domain.NewFailure(domain.ErrNotFound, "No doctor list is loaded.")
	}
	for _, card := range view.Cards {
		if card.ID != doctorID {
			continue
		}
		for _, a := range card.Actions {
			if a.Kind == kind {
				return a, nil
			}
		}
		return domain.ActionDescriptor{}, domain.NewFailure(domain.ErrUnauthorized, "This action is not available.")
	}
	return domain.ActionDescriptor{}, domain.NewFailure(domain.ErrNotFound, "Doctor not found in the current list.")
}

// RemoveCard drops a deleted doctor from the session's view.
func (d *DoctorDirectory) RemoveCard(sessionID, doctorID string) (domain.DoctorListView, bool) {
	return d.views.Update(sessionID, func(v domain.DoctorListView) domain.DoctorListView {
		cards := make([]domain.DoctorCard, 0, len(v.Cards))
		for _, c := range v.Cards {
			if c.ID != doctorID {
				cards = append(cards, c)
			}
		}
		v.Cards = cards
		if len(cards) == 0 && v.Empty == "" {
			v.Empty = EmptyDoctors
		}
		return v
	})
}

// Unmount cancels in-flight loads for the session and forgets its view.
func (d *DoctorDirectory) Unmount(sessionID string) {
	d.views.Unmount(sessionID)
}
