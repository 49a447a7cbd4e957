package handler

import (
	"net/http"

	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/internal/model"
)

type prescriptionRequest struct {
	AppointmentID int64  `json:"appointmentId" validate:"required,gt=0"`
	PatientName   string `json:"patientName" validate:"required,min=3,max=100"`
	Medication    string `json:"medication" validate:"required,min=3,max=100"`
	Dosage        string `json:"dosage" validate:"required,min=3,max=20"`
	DoctorNotes   string `json:"doctorNotes" validate:"max=200"`
}

func (h *Handler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req prescriptionRequest
	if !h.decode(w, r, &req) {
		return
	}
	ident := middleware.Identity(r.Context())

	rx := &model.Prescription{
		AppointmentID: req.AppointmentID,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}
	if err := h.svc.AddPrescription(r.Context(), rx, ident); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rx)
}

func (h *Handler) Prescriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeMessage(w, http.StatusBadRequest, "Invalid appointment id.")
		return
	}
	ident := middleware.Identity(r.Context())

	out, err := h.svc.Prescriptions(r.Context(), id, ident)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if out == nil {
		out = []model.Prescription{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"prescriptions": out})
}
