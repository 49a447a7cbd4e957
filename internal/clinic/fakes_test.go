package clinic

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
)

// in-memory stores backing the core tests; Create/Update hold the lock for
// the whole check-then-write, mirroring the database constraint.

type memAccounts struct {
	mu       sync.Mutex
	nextID   int64
	admins   map[int64]*model.Admin
	doctors  map[int64]*model.Doctor
	patients map[int64]*model.Patient
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		admins:   make(map[int64]*model.Admin),
		doctors:  make(map[int64]*model.Doctor),
		patients: make(map[int64]*model.Patient),
	}
}

func (m *memAccounts) addAdmin(username, passwordHash string) *model.Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a := &model.Admin{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	m.admins[a.ID] = a
	return a
}

func (m *memAccounts) addDoctor(name, email, passwordHash string, slots ...string) *model.Doctor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d := &model.Doctor{ID: m.nextID, Name: name, Email: email, PasswordHash: passwordHash, AvailableTimes: slots}
	m.doctors[d.ID] = d
	return d
}

func (m *memAccounts) addPatient(name, email, passwordHash string) *model.Patient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p := &model.Patient{ID: m.nextID, Name: name, Email: email, Phone: email, PasswordHash: passwordHash}
	m.patients[p.ID] = p
	return p
}

func (m *memAccounts) removePatient(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.patients, id)
}

func (m *memAccounts) AdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) DoctorByID(_ context.Context, id int64) (*model.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memAccounts) DoctorByEmail(_ context.Context, email string) (*model.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) Doctors(_ context.Context) ([]model.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memAccounts) CreateDoctor(_ context.Context, d *model.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.doctors {
		if other.Email == d.Email {
			return ErrDuplicate
		}
	}
	m.nextID++
	d.ID = m.nextID
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *memAccounts) UpdateDoctor(_ context.Context, d *model.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *memAccounts) DeleteDoctor(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(m.doctors, id)
	return nil
}

func (m *memAccounts) PatientByID(_ context.Context, id int64) (*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memAccounts) PatientByEmail(_ context.Context, email string) (*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) PatientByEmailOrPhone(_ context.Context, email, phone string) (*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.Email == email || p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) CreatePatient(_ context.Context, p *model.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

type memAppointments struct {
	mu       sync.Mutex
	nextID   int64
	byID     map[int64]*model.Appointment
	accounts *memAccounts
}

func newMemAppointments(accounts *memAccounts) *memAppointments {
	return &memAppointments{byID: make(map[int64]*model.Appointment), accounts: accounts}
}

func (m *memAppointments) overlapsLocked(doctorID int64, t time.Time, excludeID int64) bool {
	for _, a := range m.byID {
		if a.DoctorID != doctorID || a.ID == excludeID {
			continue
		}
		if d := a.Time.Sub(t); d > -SlotDuration && d < SlotDuration {
			return true
		}
	}
	return false
}

func (m *memAppointments) Create(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlapsLocked(a.DoctorID, a.Time, 0) {
		return ErrSlotTaken
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAppointments) Update(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if m.overlapsLocked(existing.DoctorID, a.Time, a.ID) {
		return ErrSlotTaken
	}
	existing.Time = a.Time
	return nil
}

func (m *memAppointments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memAppointments) SetStatus(_ context.Context, id int64, status int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memAppointments) ByID(_ context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memAppointments) detailLocked(a *model.Appointment) model.AppointmentDetail {
	detail := model.AppointmentDetail{Appointment: *a}
	if d, ok := m.accounts.doctors[a.DoctorID]; ok {
		detail.DoctorName = d.Name
	}
	if p, ok := m.accounts.patients[a.PatientID]; ok {
		detail.PatientName = p.Name
	}
	return detail
}

func (m *memAppointments) ByDoctorBetween(_ context.Context, doctorID int64, from, to time.Time) ([]model.AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AppointmentDetail
	for _, a := range m.byID {
		if a.DoctorID != doctorID {
			continue
		}
		if a.Time.Before(from) || !a.Time.Before(to) {
			continue
		}
		out = append(out, m.detailLocked(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (m *memAppointments) ByPatient(_ context.Context, patientID int64) ([]model.AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AppointmentDetail
	for _, a := range m.byID {
		if a.PatientID != patientID {
			continue
		}
		out = append(out, m.detailLocked(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

type memPrescriptions struct {
	mu  sync.Mutex
	all []model.Prescription
}

func (m *memPrescriptions) Create(_ context.Context, p *model.Prescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, *p)
	return nil
}

func (m *memPrescriptions) ByAppointment(_ context.Context, appointmentID int64) ([]model.Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Prescription
	for _, p := range m.all {
		if p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

const testSecret = "unit-test-secret"

func newTestService() (*Service, *memAccounts, *memAppointments) {
	accounts := newMemAccounts()
	appts := newMemAppointments(accounts)
	svc := New(accounts, appts, &memPrescriptions{}, auth.NewCodec(testSecret), zap.NewNop())
	return svc, accounts, appts
}

func hash(pw string) string {
	h, err := auth.HashPassword(pw)
	if err != nil {
		panic(err)
	}
	return h
}
