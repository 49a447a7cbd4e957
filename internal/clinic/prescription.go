package clinic

import (
	"context"
	"fmt"

	"clinic-appointment-api/internal/model"
)

// AddPrescription records a prescription against one of the requesting
// doctor's own appointments.
func (s *Service) AddPrescription(ctx context.Context, rx *model.Prescription, ident *Identity) error {
	appt, err := s.appts.ByID(ctx, rx.AppointmentID)
	if err != nil {
		return err
	}
	if appt.DoctorID != ident.AccountID {
		return ErrForbidden
	}
	if err := s.rx.Create(ctx, rx); err != nil {
		return fmt.Errorf("save prescription: %w", err)
	}
	return nil
}

// Prescriptions lists what was prescribed for an appointment; the doctor on
// the appointment is the only one allowed to read it.
func (s *Service) Prescriptions(ctx context.Context, appointmentID int64, ident *Identity) ([]model.Prescription, error) {
	appt, err := s.appts.ByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != ident.AccountID {
		return nil, ErrForbidden
	}
	return s.rx.ByAppointment(ctx, appointmentID)
}
