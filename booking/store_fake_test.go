package booking

import (
	"context"
	"sync"

	"github.com/ariebrainware/clinic-booking/model"
)

// memStore is an in-memory Store. reserveErrs are returned, in order, by
// the next ReserveSlot calls before the real logic runs.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	patients []*model.Patient
	slots    map[Date]int

	findErr     error
	createErr   error
	countErr    error
	reserveErrs []error
	reserveHits int
}

func newMemStore() *memStore {
	return &memStore{slots: map[Date]int{}}
}

func (m *memStore) CreatePatient(_ context.Context, p *model.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.patients {
		if existing.Name == p.Name && existing.Contact == p.Contact {
			return ErrDuplicatePatient
		}
	}
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.patients = append(m.patients, &stored)
	return nil
}

func (m *memStore) FindByIdentity(_ context.Context, name, contact string) (*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, p := range m.patients {
		if p.Name == name && p.Contact == contact {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListPatients(_ context.Context, q ListQuery) ([]model.Patient, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Patient{}
	for i, p := range m.patients {
		if i < q.Offset {
			continue
		}
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, *p)
	}
	return out, int64(len(m.patients)), nil
}

func (m *memStore) CountBookings(_ context.Context, date Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.slots[date], nil
}

func (m *memStore) ReserveSlot(_ context.Context, req ReserveRequest) (*ReserveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserveHits++
	if len(m.reserveErrs) > 0 {
		err := m.reserveErrs[0]
		m.reserveErrs = m.reserveErrs[1:]
		return nil, err
	}

	var p *model.Patient
	for _, candidate := range m.patients {
		if candidate.ID == req.PatientID {
			p = candidate
		}
	}
	if p == nil {
		return nil, ErrPatientNotFound
	}
	previous, err := AppointmentDateOf(p)
	if err != nil {
		return nil, err
	}
	if previous != nil && *previous == req.Date {
		cp := *p
		return &ReserveResult{Patient: &cp, Previous: previous, Booked: m.slots[req.Date]}, nil
	}
	if m.slots[req.Date] >= req.Capacity {
		return nil, ErrDateFullyBooked
	}
	m.slots[req.Date]++
	if previous != nil {
		m.slots[*previous]--
	}
	day := req.Date.String()
	p.AppointmentDate = &day
	cp := *p
	return &ReserveResult{Patient: &cp, Previous: previous, Changed: true, Booked: m.slots[req.Date]}, nil
}

func (m *memStore) RebuildSlotCounters(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = map[Date]int{}
	for _, p := range m.patients {
		if d, err := AppointmentDateOf(p); err == nil && d != nil {
			m.slots[*d]++
		}
	}
	return nil
}

type countingRecorder struct {
	mu       sync.Mutex
	created  int
	retries  int
	outcomes map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[string]int{}}
}

func (r *countingRecorder) PatientCreated() {
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
}

func (r *countingRecorder) BookingOutcome(outcome string) {
	r.mu.Lock()
	r.outcomes[outcome]++
	r.mu.Unlock()
}

func (r *countingRecorder) BookingRetry() {
	r.mu.Lock()
	r.retries++
	r.mu.Unlock()
}
