package clinicapi

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// ListDoctors calls GET /doctor.
func (c *Client) ListDoctors(ctx context.Context) ([]domain.DoctorRecord, error) {
	data, err := c.do(ctx, request{op: "list_doctors", method: http.MethodGet, path: "/doctor"})
	if err != nil {
		if emptyOnNotFound(err) {
			return []domain.DoctorRecord{}, nil
		}
		return nil, err
	}
	return decodeDoctors("list_doctors", data)
}

// FilterDoctors calls GET /doctor/filter. Every parameter is sent, empty
// ones as "".
func (c *Client) FilterDoctors(ctx context.Context, f ports.DoctorFilter) ([]domain.DoctorRecord, error) {
	q := url.Values{}
	q.Set("name", f.Name)
	q.Set("time", f.Time)
	q.Set("specialty", f.Specialty)

	data, err := c.do(ctx, request{op: "filter_doctors", method: http.MethodGet, path: "/doctor/filter", query: q})
	if err != nil {
		if emptyOnNotFound(err) {
			return []domain.DoctorRecord{}, nil
		}
		return nil, err
	}
	return decodeDoctors("filter_doctors", data)
}

// decodeDoctors accepts a bare array or an object with a "doctors" array.
func decodeDoctors(op string, data []byte) ([]domain.DoctorRecord, error) {
	trimmed := bytes.TrimSpace(data)
	doctors := []domain.DoctorRecord{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return doctors, nil
	}
	if trimmed[0] == '{' {
		var wrapped struct {
			Doctors []domain.DoctorRecord `json:"doctors"`
		}
		if err := decode(op, trimmed, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Doctors != nil {
			doctors = wrapped.Doctors
		}
		return doctors, nil
	}
	if err := decode(op, trimmed, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// AddDoctor calls POST /doctor.
func (c *Client) AddDoctor(ctx context.Context, token string, doctor domain.NewDoctor) (string, error) {
	data, err := c.do(ctx, request{op: "add_doctor", method: http.MethodPost, path: "/doctor", token: token, body: doctor})
	if err != nil {
		return "", err
	}
	return message(data), nil
}

// DeleteDoctor calls DELETE /doctor/{id}.
func (c *Client) DeleteDoctor(ctx context.Context, token, id string) (string, error) {
	data, err := c.do(ctx, request{
		op:     "delete_doctor",
		method: http.MethodDelete,
		path:   "/doctor/" + url.PathEscape(id),
		token:  token,
	})
	if err != nil {
		return "", err
	}
	return message(data), nil
}
