package model

import "gorm.io/gorm"

// Patient is one clinic patient. Name and Contact together identify the
// patient and are covered by a unique index.
type Patient struct {
	gorm.Model
	Name           string `json:"name" gorm:"type:varchar(191);not null;uniqueIndex:idx_patient_identity,priority:1"`
	Age            int    `json:"age"`
	Gender         string `json:"gender" gorm:"type:varchar(16);not null"`
	Contact        string `json:"contact" gorm:"type:varchar(10);not null;uniqueIndex:idx_patient_identity,priority:2"`
	MedicalHistory string `json:"medical_history" gorm:"type:longtext"`
	// AppointmentDate is YYYY-MM-DD, nil when nothing is scheduled.
	AppointmentDate *string `json:"appointment_date" gorm:"type:varchar(10);index"`
}
