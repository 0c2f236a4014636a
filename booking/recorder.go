package booking

// Booking outcomes reported to a Recorder.
const (
	OutcomeConfirmed       = "confirmed"
	OutcomeUnchanged       = "unchanged"
	OutcomeFullyBooked     = "fully_booked"
	OutcomeDateInPast      = "date_in_past"
	OutcomePatientNotFound = "patient_not_found"
	OutcomeTransient       = "transient_failure"
)

// Recorder receives booking events for metrics. Implementations must be safe
// for concurrent use.
type Recorder interface {
	PatientCreated()
	BookingOutcome(outcome string)
	BookingRetry()
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) PatientCreated()       {}
func (NopRecorder) BookingOutcome(string) {}
func (NopRecorder) BookingRetry()         {}
