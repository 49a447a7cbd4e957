package clinic

import (
	"context"
	"time"

	"go.uber.org/zap"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
)

// AccountStore is the lookup surface the core needs over admin, doctor and
// patient records. Lookups return ErrNotFound when nothing matches.
type AccountStore interface {
	AdminByUsername(ctx context.Context, username string) (*model.Admin, error)

	DoctorByID(ctx context.Context, id int64) (*model.Doctor, error)
	DoctorByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Doctors(ctx context.Context) ([]model.Doctor, error)
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	UpdateDoctor(ctx context.Context, d *model.Doctor) error
	// DeleteDoctor removes the doctor and all of their appointments in one
	// transaction.
	DeleteDoctor(ctx context.Context, id int64) error

	PatientByID(ctx context.Context, id int64) (*model.Patient, error)
	PatientByEmail(ctx context.Context, email string) (*model.Patient, error)
	PatientByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error)
	CreatePatient(ctx context.Context, p *model.Patient) error
}

// AppointmentStore persists bookings. Create and Update must be atomic with
// respect to the doctor's one-hour windows: when two writes race for
// overlapping windows, exactly one commits and the other gets ErrSlotTaken.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status int) error
	ByID(ctx context.Context, id int64) (*model.Appointment, error)
	// ByDoctorBetween returns the doctor's appointments with start instant
	// in [from, to), ordered by time.
	ByDoctorBetween(ctx context.Context, doctorID int64, from, to time.Time) ([]model.AppointmentDetail, error)
	ByPatient(ctx context.Context, patientID int64) ([]model.AppointmentDetail, error)
}

type PrescriptionStore interface {
	Create(ctx context.Context, p *model.Prescription) error
	ByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error)
}

// Identity is a verified, role-scoped actor: the token parsed, its subject
// resolved to a live account of the required role.
type Identity struct {
	Role      model.Role
	Subject   string
	AccountID int64
}

// Service is the access-controlled scheduling core. Everything it exposes is
// synchronous request/response work against the shared stores.
type Service struct {
	accounts AccountStore
	appts    AppointmentStore
	rx       PrescriptionStore
	codec    *auth.Codec
	log      *zap.Logger
	now      func() time.Time
}

func New(accounts AccountStore, appts AppointmentStore, rx PrescriptionStore, codec *auth.Codec, log *zap.Logger) *Service {
	return &Service{
		accounts: accounts,
		appts:    appts,
		rx:       rx,
		codec:    codec,
		log:      log,
		now:      time.Now,
	}
}
