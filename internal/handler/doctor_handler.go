package handler

import (
	"net/http"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/model"
)

type doctorRequest struct {
	Name           string   `json:"name" validate:"required"`
	Specialty      string   `json:"specialty" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required"`
	Password       string   `json:"password" validate:"required,min=8"`
	AvailableTimes []string `json:"availableTimes"`
}

type doctorUpdateRequest struct {
	Name           string   `json:"name" validate:"required"`
	Specialty      string   `json:"specialty" validate:"required"`
	Phone          string   `json:"phone" validate:"required"`
	AvailableTimes []string `json:"availableTimes"`
}

// ListDoctors serves the public directory:
// GET /doctors?name=strange&specialty=cardiology&period=am
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.svc.Doctors(r.Context(), clinic.DoctorFilter{
		Name:      queryParam(r, "name"),
		Specialty: queryParam(r, "specialty"),
		Period:    queryParam(r, "period"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]doctorJSON, len(doctors))
	for i, d := range doctors {
		out[i] = toDoctorJSON(d)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"doctors": out})
}

// Availability answers the free slots question:
// GET /doctors/{id}/availability?date=2025-01-31
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}
	date, ok := dateParam(r, "date")
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "A date in YYYY-MM-DD form is required.")
		return
	}

	slots, err := h.svc.Availability(r.Context(), id, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"availableTimes": slots})
}

func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if !h.decode(w, r, &req) {
		return
	}

	d := &model.Doctor{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Email:          req.Email,
		Phone:          req.Phone,
		AvailableTimes: req.AvailableTimes,
	}
	if err := h.svc.AddDoctor(r.Context(), d, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toDoctorJSON(*d))
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}
	var req doctorUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	d := &model.Doctor{
		ID:             id,
		Name:           req.Name,
		Specialty:      req.Specialty,
		Phone:          req.Phone,
		AvailableTimes: req.AvailableTimes,
	}
	if err := h.svc.UpdateDoctor(r.Context(), d); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toDoctorJSON(*d))
}

func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}

	if err := h.svc.RemoveDoctor(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, http.StatusOK, "Doctor deleted with all their appointments.")
}
