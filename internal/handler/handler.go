package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/internal/model"
)

// Handler is the thin HTTP glue over the scheduling core. No business rules
// live here: decode, gate, call the service, shape the response.
type Handler struct {
	svc *clinic.Service
	log *zap.Logger
}

var validate = validator.New()

func New(svc *clinic.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts all routes. The rate limiter covers only the credential
// endpoints.
func (h *Handler) Register(r chi.Router, rl *middleware.RateLimiter) {
	anyRole := middleware.RequireRole(h.svc, model.RoleAdmin, model.RoleDoctor, model.RolePatient)
	admin := middleware.RequireRole(h.svc, model.RoleAdmin)
	doctor := middleware.RequireRole(h.svc, model.RoleDoctor)
	patient := middleware.RequireRole(h.svc, model.RolePatient)

	r.Route("/auth", func(r chi.Router) {
		r.Use(rl.Limit)
		r.Post("/admin/login", h.AdminLogin)
		r.Post("/doctor/login", h.DoctorLogin)
		r.Post("/patient/login", h.PatientLogin)
		r.Post("/patient/register", h.RegisterPatient)
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", h.ListDoctors)
		r.With(anyRole).Get("/{id}/availability", h.Availability)
		r.With(admin).Post("/", h.CreateDoctor)
		r.With(admin).Put("/{id}", h.UpdateDoctor)
		r.With(admin).Delete("/{id}", h.DeleteDoctor)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.With(patient).Post("/", h.Book)
		r.With(patient).Put("/{id}", h.Reschedule)
		r.With(patient).Delete("/{id}", h.Cancel)
		r.With(doctor).Get("/", h.DoctorSchedule)
		r.With(doctor).Post("/{id}/complete", h.Complete)
		r.With(doctor).Get("/{id}/prescriptions", h.Prescriptions)
	})

	r.With(patient).Get("/patients/me/appointments", h.MyAppointments)
	r.With(doctor).Post("/prescriptions", h.CreatePrescription)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"message": msg})
}

// decode unmarshals and validates the request body, answering 400 itself on
// failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	if err := validate.Struct(v); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// writeError maps the core's error taxonomy onto HTTP. Storage failures stay
// generic and get logged here.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrUnauthorized):
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, clinic.ErrForbidden):
		h.writeMessage(w, http.StatusForbidden, "You are not authorized to act on this resource.")
	case errors.Is(err, clinic.ErrNotFound):
		h.writeMessage(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, clinic.ErrDuplicate):
		h.writeMessage(w, http.StatusConflict, "Already exists.")
	case errors.Is(err, clinic.ErrInvalidFilter), errors.Is(err, clinic.ErrInvalidSlot):
		h.writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("internal error", zap.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, "Internal error.")
	}
}

// writeVerdict reports a failed booking validation with its user-facing
// reason.
func (h *Handler) writeVerdict(w http.ResponseWriter, v clinic.Verdict) {
	switch v {
	case clinic.MissingTime:
		h.writeMessage(w, http.StatusBadRequest, "Appointment time is required.")
	case clinic.PastTime:
		h.writeMessage(w, http.StatusBadRequest, "Appointment time cannot be in the past.")
	case clinic.DoctorNotFound:
		h.writeMessage(w, http.StatusBadRequest, "Invalid doctor ID.")
	case clinic.PatientNotFound:
		h.writeMessage(w, http.StatusBadRequest, "Invalid patient ID.")
	case clinic.SlotTaken:
		h.writeMessage(w, http.StatusConflict, "Appointment already booked for this time.")
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryParam returns nil for an absent or empty query parameter instead of a
// sentinel string.
func queryParam(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func dateParam(r *http.Request, key string) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get(key), time.UTC)
	return d, err == nil
}

type appointmentJSON struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	DoctorName  string    `json:"doctorName,omitempty"`
	PatientID   int64     `json:"patientId"`
	PatientName string    `json:"patientName,omitempty"`
	Time        time.Time `json:"appointmentTime"`
	Status      int       `json:"status"`
}

func toAppointmentJSON(a model.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Time:      a.Time.UTC(),
		Status:    a.Status,
	}
}

func toDetailJSON(details []model.AppointmentDetail) []appointmentJSON {
	out := make([]appointmentJSON, len(details))
	for i, d := range details {
		out[i] = toAppointmentJSON(d.Appointment)
		out[i].DoctorName = d.DoctorName
		out[i].PatientName = d.PatientName
	}
	return out
}

type doctorJSON struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	AvailableTimes []string `json:"availableTimes"`
}

func toDoctorJSON(d model.Doctor) doctorJSON {
	times := d.AvailableTimes
	if times == nil {
		times = []string{}
	}
	return doctorJSON{
		ID:             d.ID,
		Name:           d.Name,
		Specialty:      d.Specialty,
		Email:          d.Email,
		Phone:          d.Phone,
		AvailableTimes: times,
	}
}
