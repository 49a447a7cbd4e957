package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account kinds. A token subject resolves against
// exactly one of these stores: admin by username, doctor/patient by email.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Doctor struct {
	ID           int64
	Name         string
	Specialty    string
	Email        string
	Phone        string
	PasswordHash string
	// AvailableTimes are the declared working slots as "HH:MM" labels,
	// insertion order preserved. They do not vary per date.
	AvailableTimes []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Patient struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Appointment status values. A booking starts as scheduled; the doctor marks
// it completed afterwards. Cancellation deletes the row instead of using a
// status.
const (
	StatusScheduled = 0
	StatusCompleted = 1
)

// Appointment occupies the one-hour window [Time, Time+1h) of its doctor.
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	Time      time.Time
	Status    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentDetail is an appointment joined with its participants' names,
// used by the doctor day-schedule and patient history views.
type AppointmentDetail struct {
	Appointment
	DoctorName  string
	PatientName string
}

// Prescription lives in MongoDB, unlike the relational records above.
type Prescription struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID int64              `bson:"appointment_id" json:"appointmentId"`
	PatientName   string             `bson:"patient_name" json:"patientName"`
	Medication    string             `bson:"medication" json:"medication"`
	Dosage        string             `bson:"dosage" json:"dosage"`
	DoctorNotes   string             `bson:"doctor_notes,omitempty" json:"doctorNotes,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
