package service

import (
	"strings"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// Empty-state messages of the doctor list.
const (
	EmptyDoctors         = "No doctors found"
	EmptyFilteredDoctors = "No doctors found with the given filters."
)

// ComposeActions decides which actions a doctor card exposes to session.
// Roles are mutually exclusive; an unknown role gets nothing.
func ComposeActions(session domain.Session, doctor domain.DoctorRecord) []domain.ActionDescriptor {
	switch session.Role {
	case domain.RoleAdmin:
		return []domain.ActionDescriptor{{
			Kind:       domain.ActionDelete,
			Label:      "Delete",
			Capability: domain.CapabilityAdmin,
			DoctorID:   doctor.ID,
			DoctorName: doctor.Name,
		}}
	case domain.RoleGuest, domain.RolePatient:
		return []domain.ActionDescriptor{{
			Kind:       domain.ActionBookPrompt,
			Label:      "Book Now",
			Capability: domain.CapabilityNone,
			DoctorID:   doctor.ID,
			DoctorName: doctor.Name,
		}}
	case domain.RoleLoggedPatient:
		return []domain.ActionDescriptor{{
			Kind:       domain.ActionBook,
			Label:      "Book Now",
			Capability: domain.CapabilityAuthenticated,
			DoctorID:   doctor.ID,
			DoctorName: doctor.Name,
		}}
	default:
		// Doctors get no card actions.
		return []domain.ActionDescriptor{}
	}
}

// RenderDoctorCard builds the display form of doctor for session.
func RenderDoctorCard(session domain.Session, doctor domain.DoctorRecord) domain.DoctorCard {
	card := domain.DoctorCard{
		ID:           doctor.ID,
		Name:         orPlaceholder(doctor.Name, domain.PlaceholderName),
		Specialty:    orPlaceholder(doctor.Specialization, domain.PlaceholderSpecialty),
		Email:        orPlaceholder(doctor.Email, domain.PlaceholderEmail),
		Availability: domain.PlaceholderAvailability,
		Actions:      ComposeActions(session, doctor),
	}

	slots := make([]string, 0, len(doctor.Availability))
	for _, slot := range doctor.Availability {
		if s := strings.TrimSpace(slot); s != "" {
			slots = append(slots, s)
		}
	}
	if len(slots) > 0 {
		card.Availability = strings.Join(slots, ", ")
	}
	return card
}

// RenderDoctorList renders every record, or the empty state when there are
// none. filtered selects the empty-state wording.
func RenderDoctorList(session domain.Session, doctors []domain.DoctorRecord, filtered bool) domain.DoctorListView {
	view := domain.DoctorListView{Cards: make([]domain.DoctorCard, 0, len(doctors))}
	for _, d := range doctors {
		view.Cards = append(view.Cards, RenderDoctorCard(session, d))
	}
	if len(view.Cards) == 0 {
		view.Empty = EmptyDoctors
		if filtered {
			view.Empty = EmptyFilteredDoctors
		}
	}
	return view
}

// ComposeNavigation returns the header links for session's role.
func ComposeNavigation(session domain.Session) []domain.NavLink {
	switch session.Role {
	case domain.RoleAdmin:
		return []domain.NavLink{
			{Label: "Add Doctor", Action: "open:addDoctor"},
			{Label: "Logout", Action: "logout"},
		}
	case domain.RoleDoctor:
		return []domain.NavLink{
			{Label: "Home", Href: "/doctorDashboard.html"},
			{Label: "Logout", Action: "logout"},
		}
	case domain.RolePatient:
		return []domain.NavLink{
			{Label: "Login", Href: "/login.html"},
			{Label: "Sign Up", Href: "/signup.html"},
		}
	case domain.RoleLoggedPatient:
		return []domain.NavLink{
			{Label: "Home", Href: "/patientDashboard.html"},
			{Label: "Appointments", Href: "/appointments.html"},
			{Label: "Logout", Action: "logout"},
		}
	default:
		return []domain.NavLink{}
	}
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
