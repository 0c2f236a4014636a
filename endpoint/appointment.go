package endpoint

import (
	"fmt"
	"strconv"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
)

type bookAppointmentRequest struct {
	Name    string `json:"name" example:"John Doe"`
	Contact string `json:"contact" example:"9876543210"`
	Date    string `json:"date" example:"2030-01-15"`
}

// BookAppointment godoc
// @Summary      Book an appointment
// @Description  Book a date for an existing patient. Booking the date the patient already holds is a no-op; booking another date moves the appointment.
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        request body bookAppointmentRequest true "Patient identity and date (YYYY-MM-DD)"
// @Success      200 {object} util.APIResponse{data=booking.Confirmation} "Appointment booked"
// @Failure      400 {object} util.APIResponse "Invalid request or date in the past"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      409 {object} util.APIResponse "Date fully booked"
// @Failure      503 {object} util.APIResponse "Temporary failure"
// @Router       /appointment [post]
func BookAppointment(c *gin.Context) {
	req := bookAppointmentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	date, err := booking.ParseDate(req.Date)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid appointment date",
			Err: err,
		})
		return
	}

	svc := getService(c)
	if svc == nil {
		return
	}

	confirmation, err := svc.BookAppointment(c.Request.Context(), req.Name, req.Contact, date)
	if err != nil {
		if booking.IsDomainError(err) {
			util.LogAuditEvent(auditEvent(c, util.AuditEvent{
				EventType: util.EventAppointmentRejected,
				Date:      date.String(),
				Message:   fmt.Sprintf("Appointment rejected: %v", err),
			}))
		}
		respondServiceError(c, err, "Failed to book appointment")
		return
	}

	msg := "Appointment booked"
	if !confirmation.Changed {
		msg = "Appointment already booked for this date"
	} else {
		details := map[string]interface{}{}
		if confirmation.PreviousDate != nil {
			details["previous_date"] = confirmation.PreviousDate.String()
		}
		util.LogAuditEvent(auditEvent(c, util.AuditEvent{
			EventType: util.EventAppointmentBooked,
			PatientID: strconv.FormatUint(uint64(confirmation.PatientID), 10),
			Date:      confirmation.Date.String(),
			Message:   msg,
			Details:   details,
		}))
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  msg,
		Data: confirmation,
	})
}

// GetAvailability godoc
// @Summary      Date availability
// @Description  Booked, capacity and remaining slots for a date
// @Tags         Appointment
// @Produce      json
// @Param        date path string true "Date (YYYY-MM-DD)"
// @Success      200 {object} util.APIResponse{data=booking.Availability} "Availability retrieved"
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Failure      503 {object} util.APIResponse "Temporary failure"
// @Router       /appointment/{date} [get]
func GetAvailability(c *gin.Context) {
	date, err := booking.ParseDate(c.Param("date"))
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid date",
			Err: err,
		})
		return
	}

	svc := getService(c)
	if svc == nil {
		return
	}

	availability, err := svc.Availability(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve availability")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Availability retrieved",
		Data: availability,
	})
}
