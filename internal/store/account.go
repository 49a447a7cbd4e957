package store

import (
	"context"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/model"
)

func (s *Store) AdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

const doctorColumns = `id, name, specialty, email, phone, password_hash, created_at, updated_at`

func (s *Store) DoctorByID(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.doctorBy(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
}

func (s *Store) DoctorByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	return s.doctorBy(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE email = $1`, email)
}

func (s *Store) doctorBy(ctx context.Context, query string, arg any) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.PasswordHash,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if d.AvailableTimes, err = s.doctorSlots(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// doctorSlots loads the declared working slots in declaration order.
func (s *Store) doctorSlots(ctx context.Context, doctorID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot FROM doctor_available_times
		 WHERE doctor_id = $1 ORDER BY position`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (s *Store) Doctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+doctorColumns+` FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.PasswordHash,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].AvailableTimes, err = s.doctorSlots(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO doctors (name, specialty, email, phone, password_hash)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		d.Name, d.Specialty, d.Email, d.Phone, d.PasswordHash,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}

	for i, slot := range d.AvailableTimes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO doctor_available_times (doctor_id, position, slot) VALUES ($1,$2,$3)`,
			d.ID, i, slot,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE doctors SET name=$1, specialty=$2, phone=$3, updated_at=NOW()
		 WHERE id=$4`,
		d.Name, d.Specialty, d.Phone, d.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}

	// replace declared slots
	if _, err := tx.Exec(ctx,
		`DELETE FROM doctor_available_times WHERE doctor_id=$1`, d.ID); err != nil {
		return err
	}
	for i, slot := range d.AvailableTimes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO doctor_available_times (doctor_id, position, slot) VALUES ($1,$2,$3)`,
			d.ID, i, slot,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteDoctor removes the doctor's appointments first so their tokens and
// bookings die together with the account.
func (s *Store) DeleteDoctor(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM appointments WHERE doctor_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM doctor_available_times WHERE doctor_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}

	return tx.Commit(ctx)
}

const patientColumns = `id, name, email, phone, address, password_hash, created_at, updated_at`

func (s *Store) PatientByID(ctx context.Context, id int64) (*model.Patient, error) {
	return s.patientBy(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
}

func (s *Store) PatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return s.patientBy(ctx, `SELECT `+patientColumns+` FROM patients WHERE email = $1`, email)
}

func (s *Store) PatientByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error) {
	return s.patientBy(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE email = $1 OR phone = $2 LIMIT 1`,
		email, phone)
}

func (s *Store) patientBy(ctx context.Context, query string, args ...any) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.PasswordHash,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO patients (name, email, phone, address, password_hash)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Email, p.Phone, p.Address, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapErr(err)
}
