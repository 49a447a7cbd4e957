package clinic

import "errors"

var (
	// ErrUnauthorized covers every token failure: malformed, expired, or a
	// subject that no longer resolves. Callers get one generic answer so
	// account existence never leaks.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the token was valid but the actor has no rights
	// over this specific resource.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// ErrSlotTaken is returned by the appointment store when the database
	// constraint catches a conflicting write that the validator missed in
	// a race.
	ErrSlotTaken = errors.New("slot already booked")

	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidSlot   = errors.New("invalid slot label")
)

// Verdict is the booking validator outcome. Checks short-circuit in the
// order the constants are declared.
type Verdict int

const (
	Valid Verdict = iota
	MissingTime
	PastTime
	DoctorNotFound
	PatientNotFound
	SlotTaken
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case MissingTime:
		return "missing time"
	case PastTime:
		return "past time"
	case DoctorNotFound:
		return "doctor not found"
	case PatientNotFound:
		return "patient not found"
	case SlotTaken:
		return "slot taken"
	}
	return "unknown"
}
