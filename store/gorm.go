// Package store persists patients and per-date booking counters with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errStaleAppointment aborts a reservation whose patient row changed after
// it was read.
var errStaleAppointment = errors.New("patient appointment changed concurrently")

// GormStore implements booking.Store. The *gorm.DB must be opened with
// TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

var _ booking.Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		panic("store: gorm DB required")
	}
	return &GormStore{db: db}
}

func (s *GormStore) CreatePatient(ctx context.Context, p *model.Patient) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return booking.ErrDuplicatePatient
	}
	if err != nil {
		return fmt.Errorf("store: insert patient: %w", err)
	}
	return nil
}

func (s *GormStore) FindByIdentity(ctx context.Context, name, contact string) (*model.Patient, error) {
	var p model.Patient
	err := s.db.WithContext(ctx).
		Where("name = ? AND contact = ?", name, contact).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find patient: %w", err)
	}
	return &p, nil
}

func (s *GormStore) ListPatients(ctx context.Context, q booking.ListQuery) ([]model.Patient, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Patient{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("store: count patients: %w", err)
	}

	query := db.Order("id ASC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	patients := []model.Patient{}
	if err := query.Find(&patients).Error; err != nil {
		return nil, 0, fmt.Errorf("store: list patients: %w", err)
	}
	return patients, total, nil
}

func (s *GormStore) CountBookings(ctx context.Context, date booking.Date) (int, error) {
	var slot model.BookingSlot
	err := s.db.WithContext(ctx).Where("date = ?", date.String()).Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read slot %s: %w", date, err)
	}
	return slot.Booked, nil
}

// ReserveSlot runs in one transaction:
//
//  1. read the patient; same date means nothing to do
//  2. make sure the date has a counter row
//  3. increment the counter only while it is below capacity
//  4. decrement the counter of the date the patient leaves
//  5. move the patient, but only if its date is still the one read in 1
//
// Step 3 is a single conditional UPDATE, so the row lock taken by the
// database serializes every booking of the same date.
func (s *GormStore) ReserveSlot(ctx context.Context, req booking.ReserveRequest) (*booking.ReserveResult, error) {
	var result *booking.ReserveResult
	day := req.Date.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Patient
		if err := tx.Take(&p, req.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrPatientNotFound
			}
			return err
		}

		previous, err := booking.AppointmentDateOf(&p)
		if err != nil {
			return fmt.Errorf("patient %d: %w", p.ID, err)
		}
		if previous != nil && *previous == req.Date {
			booked, err := slotCount(tx, day)
			if err != nil {
				return err
			}
			result = &booking.ReserveResult{Patient: &p, Previous: previous, Changed: false, Booked: booked}
			return nil
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.BookingSlot{Date: day}).Error; err != nil {
			return err
		}

		res := tx.Model(&model.BookingSlot{}).
			Where("date = ? AND booked < ?", day, req.Capacity).
			Update("booked", gorm.Expr("booked + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return booking.ErrDateFullyBooked
		}

		move := tx.Model(&model.Patient{}).Where("id = ?", p.ID)
		if previous != nil {
			if err := tx.Model(&model.BookingSlot{}).
				Where("date = ? AND booked > 0", previous.String()).
				Update("booked", gorm.Expr("booked - ?", 1)).Error; err != nil {
				return err
			}
			move = move.Where("appointment_date = ?", previous.String())
		} else {
			move = move.Where("appointment_date IS NULL")
		}

		res = move.Update("appointment_date", day)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStaleAppointment
		}

		booked, err := slotCount(tx, day)
		if err != nil {
			return err
		}
		p.AppointmentDate = &day
		result = &booking.ReserveResult{Patient: &p, Previous: previous, Changed: true, Booked: booked}
		return nil
	})

	switch {
	case err == nil:
		return result, nil
	case booking.IsDomainError(err):
		return nil, err
	case errors.Is(err, errStaleAppointment), isContention(err):
		return nil, fmt.Errorf("store: reserve %s: %w: %v", day, booking.ErrConflict, err)
	default:
		return nil, fmt.Errorf("store: reserve %s: %w", day, err)
	}
}

// RebuildSlotCounters replaces every counter with the live count of patients
// per appointment date.
func (s *GormStore) RebuildSlotCounters(ctx context.Context) error {
	type dayCount struct {
		AppointmentDate string
		Booked          int
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counts []dayCount
		if err := tx.Model(&model.Patient{}).
			Select("appointment_date, COUNT(*) AS booked").
			Where("appointment_date IS NOT NULL").
			Group("appointment_date").
			Scan(&counts).Error; err != nil {
			return fmt.Errorf("store: count appointments: %w", err)
		}

		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Model(&model.BookingSlot{}).
			Update("booked", 0).Error; err != nil {
			return fmt.Errorf("store: reset counters: %w", err)
		}

		for _, c := range counts {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"booked", "updated_at"}),
			}).Create(&model.BookingSlot{Date: c.AppointmentDate, Booked: c.Booked}).Error; err != nil {
				return fmt.Errorf("store: write counter %s: %w", c.AppointmentDate, err)
			}
		}
		return nil
	})
}

func slotCount(tx *gorm.DB, day string) (int, error) {
	var slot model.BookingSlot
	if err := tx.Where("date = ?", day).Take(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return slot.Booked, nil
}
