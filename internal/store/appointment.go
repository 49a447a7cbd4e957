package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/model"
)

// Create inserts a booking. The exclusion constraint on
// (doctor_id, one-hour window) makes the insert the serialization point for
// racing bookings: the loser comes back as clinic.ErrSlotTaken.
func (s *Store) Create(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (doctor_id, patient_id, appointment_time, status)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at, updated_at`,
		a.DoctorID, a.PatientID, a.Time, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapErr(err)
}

// Update moves an appointment to a new instant. Same constraint backstop as
// Create; the row's own prior window never conflicts with itself because the
// update replaces it atomically.
func (s *Store) Update(ctx context.Context, a *model.Appointment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET appointment_time=$1, updated_at=NOW() WHERE id=$2`,
		a.Time, a.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status=$1, updated_at=NOW() WHERE id=$2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func (s *Store) ByID(ctx context.Context, id int64) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, doctor_id, patient_id, appointment_time, status, created_at, updated_at
		 FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

const detailQuery = `
	SELECT a.id, a.doctor_id, a.patient_id, a.appointment_time, a.status,
	       a.created_at, a.updated_at, d.name, p.name
	FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN patients p ON p.id = a.patient_id`

func (s *Store) ByDoctorBetween(ctx context.Context, doctorID int64, from, to time.Time) ([]model.AppointmentDetail, error) {
	rows, err := s.pool.Query(ctx,
		detailQuery+`
		WHERE a.doctor_id = $1 AND a.appointment_time >= $2 AND a.appointment_time < $3
		ORDER BY a.appointment_time`,
		doctorID, from, to,
	)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

func (s *Store) ByPatient(ctx context.Context, patientID int64) ([]model.AppointmentDetail, error) {
	rows, err := s.pool.Query(ctx,
		detailQuery+`
		WHERE a.patient_id = $1
		ORDER BY a.appointment_time`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

func scanDetails(rows pgx.Rows) ([]model.AppointmentDetail, error) {
	defer rows.Close()

	var out []model.AppointmentDetail
	for rows.Next() {
		var a model.AppointmentDetail
		if err := rows.Scan(
			&a.ID, &a.DoctorID, &a.PatientID, &a.Time, &a.Status,
			&a.CreatedAt, &a.UpdatedAt, &a.DoctorName, &a.PatientName,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
