package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestBookingSlotModel_GuardedIncrement(t *testing.T) {
	db := setupTestDB(t, "booking_slot", &BookingSlot{})

	assert.NoError(t, db.Create(&BookingSlot{Date: "2024-01-10", Booked: 1}).Error)

	res := db.Model(&BookingSlot{}).
		Where("date = ? AND booked < ?", "2024-01-10", 2).
		Update("booked", gorm.Expr("booked + ?", 1))
	assert.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)

	res = db.Model(&BookingSlot{}).
		Where("date = ? AND booked < ?", "2024-01-10", 2).
		Update("booked", gorm.Expr("booked + ?", 1))
	assert.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)

	var slot BookingSlot
	assert.NoError(t, db.First(&slot, "date = ?", "2024-01-10").Error)
	assert.Equal(t, 2, slot.Booked)
}

func TestBookingSlotModel_InsertIgnoresExisting(t *testing.T) {
	db := setupTestDB(t, "booking_slot_upsert", &BookingSlot{})

	assert.NoError(t, db.Create(&BookingSlot{Date: "2024-01-11", Booked: 3}).Error)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&BookingSlot{Date: "2024-01-11"}).Error
	assert.NoError(t, err)

	var slot BookingSlot
	assert.NoError(t, db.First(&slot, "date = ?", "2024-01-11").Error)
	assert.Equal(t, 3, slot.Booked)
}
