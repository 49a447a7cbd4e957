package handler

import (
	"net/http"
	"time"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/internal/model"
)

type bookRequest struct {
	DoctorID int64     `json:"doctorId" validate:"required,gt=0"`
	Time     time.Time `json:"appointmentTime"`
}

type rescheduleRequest struct {
	Time time.Time `json:"appointmentTime"`
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !h.decode(w, r, &req) {
		return
	}
	ident := middleware.Identity(r.Context())

	appt := &model.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: ident.AccountID,
		Time:      req.Time.UTC(),
	}

	v, err := h.svc.Book(r.Context(), appt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if v != clinic.Valid {
		h.writeVerdict(w, v)
		return
	}
	h.writeJSON(w, http.StatusCreated, toAppointmentJSON(*appt))
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid appointment id.")
		return
	}
	var req rescheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	ident := middleware.Identity(r.Context())

	appt := &model.Appointment{ID: id, Time: req.Time.UTC()}
	v, err := h.svc.Reschedule(r.Context(), appt, ident)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if v != clinic.Valid {
		h.writeVerdict(w, v)
		return
	}
	h.writeJSON(w, http.StatusOK, toAppointmentJSON(*appt))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid appointment id.")
		return
	}
	ident := middleware.Identity(r.Context())

	if err := h.svc.Cancel(r.Context(), id, ident); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, http.StatusOK, "Appointment canceled successfully.")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid appointment id.")
		return
	}
	ident := middleware.Identity(r.Context())

	if err := h.svc.Complete(r.Context(), id, ident); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, http.StatusOK, "Appointment marked as completed.")
}

// DoctorSchedule lists the requesting doctor's day, optionally narrowed by
// patient name: GET /appointments?date=2025-01-31&patient=smith
func (h *Handler) DoctorSchedule(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(r, "date")
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "A date in YYYY-MM-DD form is required.")
		return
	}
	ident := middleware.Identity(r.Context())

	appts, err := h.svc.DoctorSchedule(r.Context(), ident, date, queryParam(r, "patient"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"appointments": toDetailJSON(appts)})
}

// MyAppointments lists the requesting patient's history:
// GET /patients/me/appointments?condition=past&doctor=who
func (h *Handler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	ident := middleware.Identity(r.Context())

	appts, err := h.svc.PatientAppointments(r.Context(), ident, clinic.HistoryFilter{
		Condition:  queryParam(r, "condition"),
		DoctorName: queryParam(r, "doctor"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"appointments": toDetailJSON(appts)})
}
