package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type emailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) login(ctx context.Context, op, path string, body any) (string, error) {
	data, err := c.do(ctx, request{op: op, method: http.MethodPost, path: path, body: body})
	if err != nil {
		return "", err
	}
	var resp tokenResponse
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// AdminLogin calls POST /admin/login.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, error) {
	return c.login(ctx, "admin_login", "/admin/login", adminLoginRequest{Username: username, Password: password})
}

// DoctorLogin calls POST /doctor/login.
func (c *Client) DoctorLogin(ctx context.Context, email, password string) (string, error) {
	return c.login(ctx, "doctor_login", "/doctor/login", emailLoginRequest{Email: email, Password: password})
}

// PatientLogin calls POST /patient/login.
func (c *Client) PatientLogin(ctx context.Context, email, password string) (string, error) {
	return c.login(ctx, "patient_login", "/patient/login", emailLoginRequest{Email: email, Password: password})
}

// PatientSignup calls POST /patient/signup.
func (c *Client) PatientSignup(ctx context.Context, req domain.SignupRequest) (string, error) {
	data, err := c.do(ctx, request{op: "patient_signup", method: http.MethodPost, path: "/patient/signup", body: req})
	if err != nil {
		return "", err
	}
	return message(data), nil
}

// PatientMe calls GET /patient/me.
func (c *Client) PatientMe(ctx context.Context, token string) (*domain.Patient, error) {
	data, err := c.do(ctx, request{op: "patient_me", method: http.MethodGet, path: "/patient/me", token: token})
	if err != nil {
		return nil, err
	}
	var p domain.Patient
	if err := decode("patient_me", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAppointments calls GET /patient/appointments/{scope}/{id}.
func (c *Client) ListAppointments(ctx context.Context, token, scope, id string) ([]domain.Appointment, error) {
	data, err := c.do(ctx, request{
		op:     "list_appointments",
		method: http.MethodGet,
		path:   "/patient/appointments/" + url.PathEscape(scope) + "/" + url.PathEscape(id),
		token:  token,
	})
	if err != nil {
		if emptyOnNotFound(err) {
			return []domain.Appointment{}, nil
		}
		return nil, err
	}
	appointments := []domain.Appointment{}
	if err := decode("list_appointments", data, &appointments); err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}

// FilterAppointments calls GET /patient/appointments/filter.
func (c *Client) FilterAppointments(ctx context.Context, token string, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	q := url.Values{}
	q.Set("condition", f.Condition)
	q.Set("name", f.Name)

	data, err := c.do(ctx, request{
		op:     "filter_appointments",
		method: http.MethodGet,
		path:   "/patient/appointments/filter",
		query:  q,
		token:  token,
	})
	if err != nil {
		if emptyOnNotFound(err) {
			return []domain.Appointment{}, nil
		}
		return nil, err
	}
	appointments := []domain.Appointment{}
	if err := decode("filter_appointments", data, &appointments); err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}

var _ ports.ClinicAPI = (*Client)(nil)
