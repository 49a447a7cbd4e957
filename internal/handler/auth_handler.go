package handler

import (
	"errors"
	"net/http"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/model"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerPatientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.svc.LoginAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.loginFailed(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token, "message": "Login successful."})
}

func (h *Handler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.svc.LoginDoctor(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginFailed(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token, "message": "Login successful."})
}

func (h *Handler) PatientLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.svc.LoginPatient(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginFailed(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token, "message": "Login successful."})
}

func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req registerPatientRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := &model.Patient{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.svc.RegisterPatient(r.Context(), p, req.Password); err != nil {
		// dup email or phone, but don't reveal which
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, http.StatusCreated, "Registration successful.")
}

func (h *Handler) loginFailed(w http.ResponseWriter, err error) {
	// unknown account and wrong password look identical
	if errors.Is(err, clinic.ErrUnauthorized) {
		h.writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	h.writeError(w, err)
}
