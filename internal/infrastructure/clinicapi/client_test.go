package clinicapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// newBackend starts an echo server standing in for the clinic backend.
func newBackend(t *testing.T, register func(e *echo.Echo)) *Client {
	t.Helper()
	e := echo.New()
	register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, zerolog.Nop())
}

func TestClient_ListDoctors(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.GET("/doctor", func(c echo.Context) error {
			return c.JSONBlob(http.StatusOK, []byte(`[{"id":1,"name":"Ana","specialty":"Cardiology","availability":["09:00-10:00"]}]`))
		})
	})

	doctors, err := c.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctors) != 1 || doctors[0].ID != "1" || doctors[0].Specialization != "Cardiology" {
		t.Fatalf("unexpected doctors %+v", doctors)
	}
}

func TestClient_FilterDoctorsWrappedAndParams(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.GET("/doctor/filter", func(c echo.Context) error {
			q := c.QueryParams()
			if _, ok := q["time"]; !ok {
				t.Errorf("empty params must still be sent: %v", q)
			}
			if q.Get("specialty") != "Dermatology" {
				t.Errorf("unexpected specialty %q", q.Get("specialty"))
			}
			return c.JSONBlob(http.StatusOK, []byte(`{"doctors":[{"id":"d2","name":"Ben","specialization":"Dermatology"}]}`))
		})
	})

	doctors, err := c.FilterDoctors(context.Background(), ports.DoctorFilter{Specialty: "Dermatology"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctors) != 1 || doctors[0].ID != "d2" || doctors[0].Specialization != "Dermatology" {
		t.Fatalf("unexpected doctors %+v", doctors)
	}
}

func TestClient_FilterDoctorsNotFoundIsEmpty(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.GET("/doctor/filter", func(c echo.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "no doctors"})
		})
	})

	doctors, err := c.FilterDoctors(context.Background(), ports.DoctorFilter{Name: "zzz"})
	if err != nil || len(doctors) != 0 || doctors == nil {
		t.Fatalf("expected empty non-nil list, got %v %v", doctors, err)
	}
}

func TestClient_DeleteDoctorSendsBearerAndMapsRejection(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.DELETE("/doctor/:id", func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("missing bearer token")
			}
			if c.Param("id") == "locked" {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Not allowed"})
			}
			return c.JSON(http.StatusOK, map[string]string{"message": "Doctor deleted"})
		})
	})

	msg, err := c.DeleteDoctor(context.Background(), "tok", "7")
	if err != nil || msg != "Doctor deleted" {
		t.Fatalf("unexpected %q %v", msg, err)
	}

	_, err = c.DeleteDoctor(context.Background(), "tok", "locked")
	if !errors.Is(err, domain.ErrRejectedByBackend) {
		t.Fatalf("expected ErrRejectedByBackend, got %v", err)
	}
	var f *domain.Failure
	if !errors.As(err, &f) || f.Status != http.StatusForbidden || f.Message != "Not allowed" {
		t.Fatalf("unexpected failure %+v", f)
	}
}

func TestClient_DeleteDoctorNotFound(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.DELETE("/doctor/:id", func(c echo.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Doctor not found"})
		})
	})

	_, err := c.DeleteDoctor(context.Background(), "tok", "7")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_AdminLoginReturnsToken(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.POST("/admin/login", func(c echo.Context) error {
			var body map[string]string
			if err := c.Bind(&body); err != nil {
				return err
			}
			if body["username"] != "root" || body["password"] != "pw" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			}
			return c.JSON(http.StatusOK, map[string]string{"token": "jwt"})
		})
	})

	tok, err := c.AdminLogin(context.Background(), "root", "pw")
	if err != nil || tok != "jwt" {
		t.Fatalf("unexpected %q %v", tok, err)
	}
	if _, err := c.AdminLogin(context.Background(), "root", "bad"); !errors.Is(err, domain.ErrRejectedByBackend) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestClient_PatientMeAndAppointments(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.GET("/patient/me", func(c echo.Context) error {
			return c.JSONBlob(http.StatusOK, []byte(`{"id":3,"name":"Pat","email":"p@x.io"}`))
		})
		e.GET("/patient/appointments/:scope/:id", func(c echo.Context) error {
			if c.Param("scope") != "patient" || c.Param("id") != "3" {
				t.Errorf("unexpected path %s/%s", c.Param("scope"), c.Param("id"))
			}
			return c.JSONBlob(http.StatusOK, []byte(`[{"id":10,"doctorName":"Dr. Ana","appointmentTime":"2025-03-14T10:00:00","status":1}]`))
		})
	})

	p, err := c.PatientMe(context.Background(), "tok")
	if err != nil || p.ID != "3" {
		t.Fatalf("unexpected %+v %v", p, err)
	}
	appts, err := c.ListAppointments(context.Background(), "tok", "patient", p.ID)
	if err != nil || len(appts) != 1 || appts[0].ID != "10" || appts[0].Status != "1" {
		t.Fatalf("unexpected %+v %v", appts, err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	_, err := c.ListDoctors(context.Background())
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("ping must fail against a closed server")
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	c := newBackend(t, func(e *echo.Echo) {
		e.GET("/doctor", func(c echo.Context) error {
			return c.String(http.StatusOK, "<html>oops</html>")
		})
	})

	_, err := c.ListDoctors(context.Background())
	if !errors.Is(err, domain.ErrRejectedByBackend) {
		t.Fatalf("expected ErrRejectedByBackend, got %v", err)
	}
}
