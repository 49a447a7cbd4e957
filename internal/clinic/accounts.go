package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
)

// Logins return a signed session token. Unknown account and wrong password
// are indistinguishable to the caller.

func (s *Service) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	a, err := s.accounts.AdminByUsername(ctx, username)
	if err != nil {
		return "", s.loginErr(err)
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	return s.codec.Issue(a.Username)
}

func (s *Service) LoginDoctor(ctx context.Context, email, password string) (string, error) {
	d, err := s.accounts.DoctorByEmail(ctx, email)
	if err != nil {
		return "", s.loginErr(err)
	}
	if !auth.CheckPassword(d.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	return s.codec.Issue(d.Email)
}

func (s *Service) LoginPatient(ctx context.Context, email, password string) (string, error) {
	p, err := s.accounts.PatientByEmail(ctx, email)
	if err != nil {
		return "", s.loginErr(err)
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	return s.codec.Issue(p.Email)
}

func (s *Service) loginErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrUnauthorized
	}
	return err
}

// RegisterPatient creates a patient account. An existing account with the
// same email or phone rejects the registration without revealing which field
// collided.
func (s *Service) RegisterPatient(ctx context.Context, p *model.Patient, password string) error {
	if _, err := s.accounts.PatientByEmailOrPhone(ctx, p.Email, p.Phone); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("patient lookup: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = hash
	return s.accounts.CreatePatient(ctx, p)
}

// AddDoctor creates a doctor account with its declared working slots.
func (s *Service) AddDoctor(ctx context.Context, d *model.Doctor, password string) error {
	if err := checkSlots(d.AvailableTimes); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	d.PasswordHash = hash
	return s.accounts.CreateDoctor(ctx, d)
}

// UpdateDoctor replaces the doctor's profile and declared slots. The email
// (the token subject) stays fixed so outstanding sessions keep resolving.
func (s *Service) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	if err := checkSlots(d.AvailableTimes); err != nil {
		return err
	}
	existing, err := s.accounts.DoctorByID(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Email = existing.Email
	d.PasswordHash = existing.PasswordHash
	return s.accounts.UpdateDoctor(ctx, d)
}

// RemoveDoctor deletes the doctor together with all of their appointments.
// Outstanding doctor tokens die with the account.
func (s *Service) RemoveDoctor(ctx context.Context, id int64) error {
	return s.accounts.DeleteDoctor(ctx, id)
}

func checkSlots(slots []string) error {
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		if !ValidSlotLabel(slot) {
			return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
		}
		if seen[slot] {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidSlot, slot)
		}
		seen[slot] = true
	}
	return nil
}

// DoctorFilter narrows the directory listing. Absent filters are nil.
type DoctorFilter struct {
	Name      *string
	Specialty *string
	// Period is "am" or "pm"; a doctor matches when any declared slot
	// falls in that half of the day.
	Period *string
}

// Doctors lists the directory, filtered in memory; the clinic roster is
// small.
func (s *Service) Doctors(ctx context.Context, f DoctorFilter) ([]model.Doctor, error) {
	if f.Period != nil {
		switch strings.ToLower(strings.TrimSpace(*f.Period)) {
		case "am", "pm":
		default:
			return nil, fmt.Errorf("%w: period must be am or pm", ErrInvalidFilter)
		}
	}

	all, err := s.accounts.Doctors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Doctor, 0, len(all))
	for _, d := range all {
		if f.Name != nil {
			needle := strings.ToLower(strings.TrimSpace(*f.Name))
			if !strings.Contains(strings.ToLower(d.Name), needle) {
				continue
			}
		}
		if f.Specialty != nil {
			if !strings.EqualFold(strings.TrimSpace(*f.Specialty), d.Specialty) {
				continue
			}
		}
		if f.Period != nil && !matchesPeriod(d.AvailableTimes, *f.Period) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func matchesPeriod(slots []string, period string) bool {
	am := strings.EqualFold(strings.TrimSpace(period), "am")
	for _, slot := range slots {
		if (slot < "12:00") == am {
			return true
		}
	}
	return false
}
