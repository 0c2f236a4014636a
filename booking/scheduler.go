package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultCapacity     = 20
	DefaultMaxRetries   = 5
	DefaultRetryBackoff = 20 * time.Millisecond
)

// SchedulerConfig tunes the AppointmentScheduler. Zero values fall back to
// the defaults above, the system clock and the local time zone.
type SchedulerConfig struct {
	Capacity     int
	MaxRetries   int
	RetryBackoff time.Duration
	Clock        Clock
	Location     *time.Location
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// Confirmation is returned for every successful booking, including a repeat
// booking of the same date.
type Confirmation struct {
	PatientID    uint   `json:"patient_id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Date         Date   `json:"date"`
	PreviousDate *Date  `json:"previous_date,omitempty"`
	Changed      bool   `json:"changed"`
}

// Availability is the booking state of a single date.
type Availability struct {
	Date      Date `json:"date"`
	Booked    int  `json:"booked"`
	Capacity  int  `json:"capacity"`
	Remaining int  `json:"remaining"`
}

// AppointmentScheduler books dates for existing patients without ever
// exceeding the daily capacity.
type AppointmentScheduler struct {
	store    Store
	resolver *IdentityResolver
	cfg      SchedulerConfig
	recorder Recorder
	log      *zap.Logger
}

func NewAppointmentScheduler(store Store, resolver *IdentityResolver, cfg SchedulerConfig, recorder Recorder, log *zap.Logger) *AppointmentScheduler {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AppointmentScheduler{
		store:    store,
		resolver: resolver,
		cfg:      cfg.withDefaults(),
		recorder: recorder,
		log:      log,
	}
}

func (s *AppointmentScheduler) Capacity() int { return s.cfg.Capacity }

// Today is the current date in the clinic's time zone.
func (s *AppointmentScheduler) Today() Date {
	return DateOf(s.cfg.Clock.Now().In(s.cfg.Location))
}

// BookAppointment reserves date for the patient identified by name and
// contact. A patient already booked elsewhere is moved, which releases the
// old date's slot.
func (s *AppointmentScheduler) BookAppointment(ctx context.Context, name, contact string, date Date) (*Confirmation, error) {
	patient, err := s.resolver.Resolve(ctx, name, contact)
	if errors.Is(err, ErrNotFound) {
		s.recorder.BookingOutcome(OutcomePatientNotFound)
		return nil, ErrPatientNotFound
	}
	if err != nil {
		s.recorder.BookingOutcome(OutcomeTransient)
		return nil, err
	}

	if date.Before(s.Today()) {
		s.recorder.BookingOutcome(OutcomeDateInPast)
		return nil, ErrDateInPast
	}

	res, err := s.reserve(ctx, ReserveRequest{
		PatientID: patient.ID,
		Date:      date,
		Capacity:  s.cfg.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDateFullyBooked):
			s.recorder.BookingOutcome(OutcomeFullyBooked)
		case errors.Is(err, ErrPatientNotFound):
			s.recorder.BookingOutcome(OutcomePatientNotFound)
		default:
			s.recorder.BookingOutcome(OutcomeTransient)
		}
		return nil, err
	}

	if res.Changed {
		s.recorder.BookingOutcome(OutcomeConfirmed)
		s.log.Info("appointment booked",
			zap.Uint("patient_id", patient.ID),
			zap.Stringer("date", date),
			zap.Int("booked", res.Booked),
		)
	} else {
		s.recorder.BookingOutcome(OutcomeUnchanged)
	}

	return &Confirmation{
		PatientID:    patient.ID,
		Name:         patient.Name,
		Contact:      patient.Contact,
		Date:         date,
		PreviousDate: res.Previous,
		Changed:      res.Changed,
	}, nil
}

// reserve runs the store transaction, retrying while it loses races to
// concurrent writers. The retry budget is MaxRetries attempts in total.
func (s *AppointmentScheduler) reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		res, err := s.store.ReserveSlot(ctx, req)
		if err == nil {
			return res, nil
		}
		if IsDomainError(err) {
			return nil, err
		}
		if !errors.Is(err, ErrConflict) {
			s.log.Error("failed to reserve slot", zap.Stringer("date", req.Date), zap.Error(err))
			return nil, transient("reserve slot", err)
		}

		lastErr = err
		s.recorder.BookingRetry()
		s.log.Debug("slot reservation conflict",
			zap.Uint("patient_id", req.PatientID),
			zap.Stringer("date", req.Date),
			zap.Int("attempt", attempt),
		)
		if attempt == s.cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt) * s.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, transient("reserve slot", ctx.Err())
		case <-timer.C:
		}
	}

	s.log.Warn("slot reservation retries exhausted",
		zap.Uint("patient_id", req.PatientID),
		zap.Stringer("date", req.Date),
		zap.Int("attempts", s.cfg.MaxRetries),
	)
	return nil, transient("reserve slot", fmt.Errorf("gave up after %d attempts: %w", s.cfg.MaxRetries, lastErr))
}

// Availability reports how many slots of date are taken.
func (s *AppointmentScheduler) Availability(ctx context.Context, date Date) (*Availability, error) {
	booked, err := s.store.CountBookings(ctx, date)
	if err != nil {
		return nil, transient("count bookings", err)
	}
	remaining := s.cfg.Capacity - booked
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{
		Date:      date,
		Booked:    booked,
		Capacity:  s.cfg.Capacity,
		Remaining: remaining,
	}, nil
}
