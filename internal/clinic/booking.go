package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-appointment-api/internal/model"
)

// ValidateBooking runs the conflict checks for a proposed appointment in
// fixed order, first failure wins. When appt.ID is set the appointment's own
// row is excluded from the overlap set, which is what makes updates work.
// The returned error is a storage failure, reported separately from any
// verdict.
func (s *Service) ValidateBooking(ctx context.Context, appt *model.Appointment) (Verdict, error) {
	if appt.Time.IsZero() {
		return MissingTime, nil
	}
	if appt.Time.Before(s.now()) {
		return PastTime, nil
	}

	if _, err := s.accounts.DoctorByID(ctx, appt.DoctorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DoctorNotFound, nil
		}
		return Valid, fmt.Errorf("doctor lookup: %w", err)
	}
	if _, err := s.accounts.PatientByID(ctx, appt.PatientID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return PatientNotFound, nil
		}
		return Valid, fmt.Errorf("patient lookup: %w", err)
	}

	// Anything starting inside (t-1h, t+1h) overlaps the window [t, t+1h).
	neighbours, err := s.appts.ByDoctorBetween(ctx, appt.DoctorID,
		appt.Time.Add(-SlotDuration), appt.Time.Add(SlotDuration))
	if err != nil {
		return Valid, fmt.Errorf("overlap lookup: %w", err)
	}
	for _, other := range neighbours {
		if other.ID == appt.ID {
			continue
		}
		d := other.Time.Sub(appt.Time)
		if d > -SlotDuration && d < SlotDuration {
			return SlotTaken, nil
		}
	}
	return Valid, nil
}

// Book validates and persists a new appointment as one decision: a conflict
// the validator missed in a race still surfaces as SlotTaken because the
// store write fails on the overlap constraint.
func (s *Service) Book(ctx context.Context, appt *model.Appointment) (Verdict, error) {
	v, err := s.ValidateBooking(ctx, appt)
	if err != nil || v != Valid {
		return v, err
	}

	appt.Status = model.StatusScheduled
	if err := s.appts.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return SlotTaken, nil
		}
		return Valid, fmt.Errorf("book appointment: %w", err)
	}
	return Valid, nil
}

// Reschedule moves an existing appointment. The requesting patient must own
// it; the overlap check ignores the appointment's prior window.
func (s *Service) Reschedule(ctx context.Context, appt *model.Appointment, ident *Identity) (Verdict, error) {
	existing, err := s.appts.ByID(ctx, appt.ID)
	if err != nil {
		return Valid, err
	}
	if existing.PatientID != ident.AccountID {
		return Valid, ErrForbidden
	}

	// only the instant moves; participants and status carry over
	appt.DoctorID = existing.DoctorID
	appt.PatientID = existing.PatientID
	appt.Status = existing.Status

	v, err := s.ValidateBooking(ctx, appt)
	if err != nil || v != Valid {
		return v, err
	}

	if err := s.appts.Update(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return SlotTaken, nil
		}
		return Valid, fmt.Errorf("update appointment: %w", err)
	}
	return Valid, nil
}

// Cancel deletes an appointment, but only for the patient who booked it.
// A valid token for a different patient gets ErrForbidden, not
// ErrUnauthorized.
func (s *Service) Cancel(ctx context.Context, id int64, ident *Identity) error {
	appt, err := s.appts.ByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.PatientID != ident.AccountID {
		return ErrForbidden
	}
	return s.appts.Delete(ctx, id)
}

// Complete marks one of the doctor's own appointments as done.
func (s *Service) Complete(ctx context.Context, id int64, ident *Identity) error {
	appt, err := s.appts.ByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.DoctorID != ident.AccountID {
		return ErrForbidden
	}
	return s.appts.SetStatus(ctx, id, model.StatusCompleted)
}

// DoctorSchedule lists the doctor's appointments for one day, optionally
// narrowed to patients whose name contains patientName.
func (s *Service) DoctorSchedule(ctx context.Context, ident *Identity, date time.Time, patientName *string) ([]model.AppointmentDetail, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	appts, err := s.appts.ByDoctorBetween(ctx, ident.AccountID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if patientName == nil {
		return appts, nil
	}

	needle := strings.ToLower(strings.TrimSpace(*patientName))
	out := appts[:0]
	for _, a := range appts {
		if strings.Contains(strings.ToLower(a.PatientName), needle) {
			out = append(out, a)
		}
	}
	return out, nil
}

// HistoryFilter narrows a patient's appointment history. Absent filters are
// nil, not sentinel strings.
type HistoryFilter struct {
	// Condition is "past" or "future", mapped onto the completed/scheduled
	// status values.
	Condition  *string
	DoctorName *string
}

// PatientAppointments lists the requesting patient's own appointments,
// ordered by time.
func (s *Service) PatientAppointments(ctx context.Context, ident *Identity, f HistoryFilter) ([]model.AppointmentDetail, error) {
	var status int
	if f.Condition != nil {
		switch strings.ToLower(strings.TrimSpace(*f.Condition)) {
		case "past":
			status = model.StatusCompleted
		case "future":
			status = model.StatusScheduled
		default:
			return nil, fmt.Errorf("%w: condition must be past or future", ErrInvalidFilter)
		}
	}

	appts, err := s.appts.ByPatient(ctx, ident.AccountID)
	if err != nil {
		return nil, err
	}

	out := make([]model.AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		if f.Condition != nil && a.Status != status {
			continue
		}
		if f.DoctorName != nil {
			needle := strings.ToLower(strings.TrimSpace(*f.DoctorName))
			if !strings.Contains(strings.ToLower(a.DoctorName), needle) {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}
