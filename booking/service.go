// Package booking holds the patient registry and the appointment scheduler of
// the clinic. It enforces two invariants: no two patients share a
// (name, contact) identity, and no date carries more bookings than the
// configured capacity.
package booking

import (
	"context"
	"errors"

	"github.com/ariebrainware/clinic-booking/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/ariebrainware/clinic-booking/booking")

// Options configures a Service.
type Options struct {
	Scheduler SchedulerConfig
	Recorder  Recorder
	Logger    *zap.Logger
}

// Service is the API exposed to callers: patient creation, lookup, listing,
// booking and availability.
type Service struct {
	store     Store
	resolver  *IdentityResolver
	registry  *PatientRegistry
	scheduler *AppointmentScheduler
}

func NewService(store Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	resolver := NewIdentityResolver(store)
	return &Service{
		store:     store,
		resolver:  resolver,
		registry:  NewPatientRegistry(store, resolver, opts.Recorder, log.Named("registry")),
		scheduler: NewAppointmentScheduler(store, resolver, opts.Scheduler, opts.Recorder, log.Named("scheduler")),
	}
}

func (s *Service) Capacity() int { return s.scheduler.Capacity() }

func (s *Service) Today() Date { return s.scheduler.Today() }

func (s *Service) CreatePatient(ctx context.Context, in NewPatient) (*model.Patient, error) {
	ctx, span := tracer.Start(ctx, "booking.create_patient")
	defer span.End()

	p, err := s.registry.CreatePatient(ctx, in)
	endSpan(span, err)
	if p != nil {
		span.SetAttributes(attribute.Int64("patient.id", int64(p.ID)))
	}
	return p, err
}

// FindPatient returns ErrNotFound when nobody has this identity.
func (s *Service) FindPatient(ctx context.Context, name, contact string) (*model.Patient, error) {
	ctx, span := tracer.Start(ctx, "booking.find_patient")
	defer span.End()

	p, err := s.resolver.Resolve(ctx, name, contact)
	if errors.Is(err, ErrNotFound) {
		span.SetAttributes(attribute.Bool("patient.found", false))
		return nil, err
	}
	endSpan(span, err)
	return p, err
}

func (s *Service) ListPatients(ctx context.Context, q ListQuery) (*PatientPage, error) {
	ctx, span := tracer.Start(ctx, "booking.list_patients")
	defer span.End()

	page, err := s.registry.ListPatients(ctx, q)
	endSpan(span, err)
	return page, err
}

func (s *Service) BookAppointment(ctx context.Context, name, contact string, date Date) (*Confirmation, error) {
	ctx, span := tracer.Start(ctx, "booking.book_appointment",
		trace.WithAttributes(attribute.String("booking.date", date.String())),
	)
	defer span.End()

	c, err := s.scheduler.BookAppointment(ctx, name, contact, date)
	endSpan(span, err)
	if c != nil {
		span.SetAttributes(
			attribute.Int64("patient.id", int64(c.PatientID)),
			attribute.Bool("booking.changed", c.Changed),
		)
	}
	return c, err
}

func (s *Service) Availability(ctx context.Context, date Date) (*Availability, error) {
	ctx, span := tracer.Start(ctx, "booking.availability",
		trace.WithAttributes(attribute.String("booking.date", date.String())),
	)
	defer span.End()

	a, err := s.scheduler.Availability(ctx, date)
	endSpan(span, err)
	return a, err
}

// RebuildSlotCounters realigns the per-date counters with the appointment
// dates stored on patients.
func (s *Service) RebuildSlotCounters(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "booking.rebuild_slot_counters")
	defer span.End()

	err := s.store.RebuildSlotCounters(ctx)
	if err != nil {
		err = transient("rebuild slot counters", err)
	}
	endSpan(span, err)
	return err
}

func endSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	if IsDomainError(err) {
		span.SetAttributes(attribute.String("booking.rejection", err.Error()))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
