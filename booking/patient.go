package booking

import (
	"strings"

	"github.com/ariebrainware/clinic-booking/model"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// MaxNameLength is the longest name, in characters, the patients table holds.
const MaxNameLength = 191

var genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender matches s case-insensitively and returns the canonical value.
func ParseGender(s string) (Gender, bool) {
	for _, g := range genders {
		if strings.EqualFold(s, string(g)) {
			return g, true
		}
	}
	return "", false
}

// NewPatient carries the fields accepted by CreatePatient.
type NewPatient struct {
	Name           string
	Age            int
	Gender         string
	Contact        string
	MedicalHistory string
}

// PatientPage is one page of the patient list.
type PatientPage struct {
	Patients []model.Patient `json:"patients"`
	Total    int64           `json:"total"`
}

// validContact reports whether s is exactly ten ASCII decimal digits.
func validContact(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// AppointmentDateOf returns the patient's booked date, if any.
func AppointmentDateOf(p *model.Patient) (*Date, error) {
	if p == nil || p.AppointmentDate == nil {
		return nil, nil
	}
	d, err := ParseDate(*p.AppointmentDate)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
