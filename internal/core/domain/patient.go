package domain

import (
	"encoding/json"
	"strings"
)

// Patient is the signed-in patient's profile as returned by /patient/me.
type Patient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (p *Patient) UnmarshalJSON(data []byte) error {
	type alias Patient
	var w struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Patient(w.alias)
	p.ID = rawID(w.ID)
	return nil
}

// SignupRequest registers a new patient. Every field is required.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Appointment is a row of an appointment table.
type Appointment struct {
	ID              string `json:"id"`
	PatientID       string `json:"patientId,omitempty"`
	PatientName     string `json:"patientName,omitempty"`
	PatientPhone    string `json:"patientPhone,omitempty"`
	PatientEmail    string `json:"patientEmail,omitempty"`
	DoctorID        string `json:"doctorId,omitempty"`
	DoctorName      string `json:"doctorName,omitempty"`
	AppointmentTime string `json:"appointmentTime"`
	Status          string `json:"status,omitempty"`
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	type alias Appointment
	var w struct {
		alias
		ID        json.RawMessage `json:"id"`
		PatientID json.RawMessage `json:"patientId"`
		DoctorID  json.RawMessage `json:"doctorId"`
		Status    json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Appointment(w.alias)
	a.ID = rawID(w.ID)
	a.PatientID = rawID(w.PatientID)
	a.DoctorID = rawID(w.DoctorID)
	a.Status = rawID(w.Status)
	return nil
}

// Date returns the YYYY-MM-DD part of AppointmentTime, or "" if absent.
func (a Appointment) Date() string {
	t := strings.TrimSpace(a.AppointmentTime)
	if len(t) < len("2006-01-02") {
		return ""
	}
	return t[:len("2006-01-02")]
}

// AppointmentQuery selects what an appointment board shows.
type AppointmentQuery struct {
	Date      string
	Name      string
	Condition string
}

// AppointmentBoardView is what an appointment table currently shows.
type AppointmentBoardView struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
	Empty        string        `json:"empty,omitempty"`
	Seq          uint64        `json:"seq"`
	Stale        bool          `json:"stale,omitempty"`
}
