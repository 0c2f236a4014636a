package endpoint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
)

type createPatientRequest struct {
	Name           string `json:"name" example:"John Doe"`
	Age            int    `json:"age" example:"30"`
	Gender         string `json:"gender" example:"Male"`
	Contact        string `json:"contact" example:"9876543210"`
	MedicalHistory string `json:"medical_history" example:"Hypertension"`
}

// CreatePatient godoc
// @Summary      Create a new patient
// @Description  Register a new patient. Name and contact together identify the patient.
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        request body createPatientRequest true "Patient information"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      409 {object} util.APIResponse "Patient already exists"
// @Failure      503 {object} util.APIResponse "Temporary failure"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	req := createPatientRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return
	}

	svc := getService(c)
	if svc == nil {
		return
	}

	patient, err := svc.CreatePatient(c.Request.Context(), booking.NewPatient{
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		Contact:        req.Contact,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		if booking.IsDomainError(err) {
			util.LogAuditEvent(auditEvent(c, util.AuditEvent{
				EventType: util.EventPatientRejected,
				Message:   fmt.Sprintf("Patient rejected: %v", err),
			}))
		}
		respondServiceError(c, err, "Failed to create patient")
		return
	}

	util.LogAuditEvent(auditEvent(c, util.AuditEvent{
		EventType: util.EventPatientCreated,
		PatientID: strconv.FormatUint(uint64(patient.ID), 10),
		Message:   "Patient created",
	}))

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient created",
		Data: patient,
	})
}

// FindPatient godoc
// @Summary      Find a patient
// @Description  Look up a patient by the exact name and contact pair
// @Tags         Patient
// @Produce      json
// @Param        name query string true "Patient name"
// @Param        contact query string true "Patient contact"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient found"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      503 {object} util.APIResponse "Temporary failure"
// @Router       /patient/lookup [get]
func FindPatient(c *gin.Context) {
	svc := getService(c)
	if svc == nil {
		return
	}

	patient, err := svc.FindPatient(c.Request.Context(), c.Query("name"), c.Query("contact"))
	if errors.Is(err, booking.ErrNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Patient not found",
			Err: booking.ErrPatientNotFound,
		})
		return
	}
	if err != nil {
		respondServiceError(c, err, "Failed to find patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient found",
		Data: patient,
	})
}

// ListPatients godoc
// @Summary      List all patients
// @Description  Get a paginated list of patients ordered by registration
// @Tags         Patient
// @Produce      json
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse{data=booking.PatientPage} "Patients retrieved"
// @Failure      400 {object} util.APIResponse "Invalid pagination"
// @Failure      503 {object} util.APIResponse "Temporary failure"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid limit", Err: err})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid offset", Err: err})
		return
	}

	svc := getService(c)
	if svc == nil {
		return
	}

	page, err := svc.ListPatients(c.Request.Context(), booking.ListQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve patients")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients retrieved",
		Data: page,
	})
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
