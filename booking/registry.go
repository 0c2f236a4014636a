package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ariebrainware/clinic-booking/model"
	"go.uber.org/zap"
)

// PatientRegistry validates and creates patient records.
type PatientRegistry struct {
	store    Store
	resolver *IdentityResolver
	recorder Recorder
	log      *zap.Logger
}

func NewPatientRegistry(store Store, resolver *IdentityResolver, recorder Recorder, log *zap.Logger) *PatientRegistry {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PatientRegistry{store: store, resolver: resolver, recorder: recorder, log: log}
}

// CreatePatient checks the fields in order and stops at the first failure:
// name, contact, age, gender, then uniqueness of (name, contact).
func (r *PatientRegistry) CreatePatient(ctx context.Context, in NewPatient) (*model.Patient, error) {
	// A name of only whitespace counts as empty.
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidName
	}
	if utf8.RuneCountInString(in.Name) > MaxNameLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
	}
	if !validContact(in.Contact) {
		return nil, ErrInvalidContact
	}
	if in.Age < 0 {
		return nil, ErrInvalidAge
	}
	gender, ok := ParseGender(in.Gender)
	if !ok {
		return nil, ErrInvalidGender
	}

	_, err := r.resolver.Resolve(ctx, in.Name, in.Contact)
	switch {
	case err == nil:
		return nil, ErrDuplicatePatient
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	p := &model.Patient{
		Name:           in.Name,
		Age:            in.Age,
		Gender:         string(gender),
		Contact:        in.Contact,
		MedicalHistory: in.MedicalHistory,
	}
	// The unique index settles the race between two creations that both
	// passed the lookup above.
	if err := r.store.CreatePatient(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicatePatient) {
			return nil, ErrDuplicatePatient
		}
		r.log.Error("failed to create patient", zap.Error(err))
		return nil, transient("create patient", err)
	}

	r.recorder.PatientCreated()
	r.log.Info("patient created", zap.Uint("patient_id", p.ID))
	return p, nil
}

// ListPatients returns patients ordered by creation with their appointment
// dates.
func (r *PatientRegistry) ListPatients(ctx context.Context, q ListQuery) (*PatientPage, error) {
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	patients, total, err := r.store.ListPatients(ctx, q)
	if err != nil {
		return nil, transient("list patients", err)
	}
	return &PatientPage{Patients: patients, Total: total}, nil
}
