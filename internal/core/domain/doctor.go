package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Placeholders shown on a doctor card when the backend omits a field.
const (
	PlaceholderName         = "Unknown Doctor"
	PlaceholderSpecialty    = "N/A"
	PlaceholderEmail        = "Not Provided"
	PlaceholderAvailability = "Not specified"
)

// DoctorRecord is an immutable snapshot of a doctor as returned by the backend.
type DoctorRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialty"`
	Email          string   `json:"email"`
	Availability   []string `json:"availability"`
}

type doctorWire struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	Specialty      string          `json:"specialty"`
	Specialization string          `json:"specialization"`
	Email          string          `json:"email"`
	Availability   json.RawMessage `json:"availability"`
	AvailableTimes []string        `json:"availableTimes"`
}

// UnmarshalJSON accepts the shapes the backend has been seen to emit:
// numeric or string ids, "specialty" or "specialization", and availability
// as a list, a single label, or "availableTimes".
func (d *DoctorRecord) UnmarshalJSON(data []byte) error {
	var w doctorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*d = DoctorRecord{
		ID:             rawID(w.ID),
		Name:           w.Name,
		Specialization: w.Specialty,
		Email:          w.Email,
	}
	if d.Specialization == "" {
		d.Specialization = w.Specialization
	}

	slots, err := rawSlots(w.Availability)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		slots = w.AvailableTimes
	}
	d.Availability = slots
	return nil
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func rawSlots(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// NewDoctor is the payload an admin submits to register a doctor.
type NewDoctor struct {
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Mobile       string `json:"mobile"`
	Availability string `json:"availability"`
}

// DoctorCard is the display form of a DoctorRecord. Missing fields are
// rendered as placeholder text, never omitted.
type DoctorCard struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Specialty    string             `json:"specialty"`
	Email        string             `json:"email"`
	Availability string             `json:"availability"`
	Actions      []ActionDescriptor `json:"actions"`
}

// DoctorListView is what a doctor list currently shows.
type DoctorListView struct {
	Cards []DoctorCard `json:"cards"`
	// Empty is the empty-state message; set only when Cards is empty.
	Empty string `json:"empty,omitempty"`
	Seq   uint64 `json:"seq"`
	// Stale is set when the caller's own query was superseded and the view
	// returned is a newer one.
	Stale bool `json:"stale,omitempty"`
}
