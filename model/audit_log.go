package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is a persisted booking or endpoint event.
type AuditLog struct {
	gorm.Model
	EventType string         `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	PatientID string         `json:"patient_id" gorm:"column:patient_id;type:varchar(64);index"`
	Date      string         `json:"date" gorm:"column:date;type:varchar(10);index"`
	IP        string         `json:"ip" gorm:"column:ip;type:varchar(45)"`
	UserAgent string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	RequestID string         `json:"request_id" gorm:"column:request_id;type:varchar(64);index"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details;type:json"`
}

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{&Patient{}, &BookingSlot{}, &AuditLog{}}
}
