package endpoint

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/middleware"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
)

var errServiceUnavailable = errors.New("booking service is nil")

// getService returns the booking service or writes a 500 and returns nil.
func getService(c *gin.Context) *booking.Service {
	svc := middleware.GetService(c)
	if svc == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Booking service not available",
			Err: errServiceUnavailable,
		})
	}
	return svc
}

// respondServiceError maps a booking error onto the API response.
func respondServiceError(c *gin.Context, err error, msg string) {
	params := util.APIErrorParams{Msg: msg, Err: err}
	switch {
	case errors.Is(err, booking.ErrInvalidName),
		errors.Is(err, booking.ErrInvalidContact),
		errors.Is(err, booking.ErrInvalidAge),
		errors.Is(err, booking.ErrInvalidGender),
		errors.Is(err, booking.ErrDateInPast):
		util.CallUserError(c, params)
	case errors.Is(err, booking.ErrPatientNotFound), errors.Is(err, booking.ErrNotFound):
		util.CallErrorNotFound(c, params)
	case errors.Is(err, booking.ErrDuplicatePatient), errors.Is(err, booking.ErrDateFullyBooked):
		util.CallConflict(c, params)
	case errors.Is(err, booking.ErrTransientFailure):
		_ = c.Error(err)
		util.CallServiceUnavailable(c, util.APIErrorParams{
			Msg: msg,
			Err: fmt.Errorf("temporary failure, please retry"),
		})
	default:
		_ = c.Error(err)
		util.CallServerError(c, params)
	}
}

// auditEvent fills the request scoped fields of an audit event.
func auditEvent(c *gin.Context, event util.AuditEvent) util.AuditEvent {
	event.IP = c.ClientIP()
	event.UserAgent = c.Request.UserAgent()
	event.RequestID = middleware.GetRequestID(c)
	return event
}
