package model

import "time"

// BookingSlot counts the patients booked on one date.
type BookingSlot struct {
	Date      string    `json:"date" gorm:"primaryKey;type:varchar(10)"`
	Booked    int       `json:"booked" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
