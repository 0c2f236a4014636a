package booking

import (
	"context"

	"github.com/ariebrainware/clinic-booking/model"
)

// Store is the persistence collaborator of the booking core.
//
// Implementations must enforce uniqueness of (name, contact) themselves and
// must run ReserveSlot as one indivisible transaction.
type Store interface {
	// CreatePatient inserts p and fills its ID. Returns ErrDuplicatePatient
	// when the (name, contact) pair is already taken.
	CreatePatient(ctx context.Context, p *model.Patient) error

	// FindByIdentity returns the patient with exactly this name and contact,
	// or ErrNotFound.
	FindByIdentity(ctx context.Context, name, contact string) (*model.Patient, error)

	ListPatients(ctx context.Context, q ListQuery) ([]model.Patient, int64, error)

	// CountBookings returns the number of patients booked on date.
	CountBookings(ctx context.Context, date Date) (int, error)

	// ReserveSlot moves the patient onto req.Date if the date has fewer than
	// req.Capacity bookings. Returns ErrDateFullyBooked when it has not,
	// ErrPatientNotFound when the patient vanished and ErrConflict when a
	// concurrent writer won the race.
	ReserveSlot(ctx context.Context, req ReserveRequest) (*ReserveResult, error)

	// RebuildSlotCounters recomputes every per-date counter from patient rows.
	RebuildSlotCounters(ctx context.Context) error
}

type ReserveRequest struct {
	PatientID uint
	Date      Date
	Capacity  int
}

type ReserveResult struct {
	Patient *model.Patient
	// Previous is the date the patient held before the call, if any.
	Previous *Date
	// Changed is false when the patient was already booked on the date.
	Changed bool
	// Booked is the date's booking count after the call.
	Booked int
}

type ListQuery struct {
	Limit  int
	Offset int
}
