package endpoint

import (
	"net/http"
	"sync"
	"testing"

	"github.com/ariebrainware/clinic-booking/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAppointment_CapacityScenario(t *testing.T) {
	r, _ := setupEndpointTest(t, 2)
	createPatient(t, r, "A", "1111111111")
	createPatient(t, r, "B", "2222222222")
	createPatient(t, r, "C", "3333333333")

	w, resp := bookAppointment(t, r, "A", "1111111111", "2030-01-15")
	assertStatus(t, w, http.StatusOK)
	data := responseData(t, resp)
	assert.Equal(t, "2030-01-15", data["date"])
	assert.Equal(t, true, data["changed"])

	w, _ = bookAppointment(t, r, "B", "2222222222", "2030-01-15")
	assertStatus(t, w, http.StatusOK)

	w, resp = bookAppointment(t, r, "C", "3333333333", "2030-01-15")
	assertStatus(t, w, http.StatusConflict)
	assert.Equal(t, "appointment slots for this date are fully booked", resp["error"])

	w, _ = bookAppointment(t, r, "C", "3333333333", "2030-01-16")
	assertStatus(t, w, http.StatusOK)

	w, resp = doRequest(t, r, requestParams{method: "GET", path: "/appointment/2030-01-15"})
	assertStatus(t, w, http.StatusOK)
	data = responseData(t, resp)
	assert.Equal(t, float64(2), data["booked"])
	assert.Equal(t, float64(2), data["capacity"])
	assert.Equal(t, float64(0), data["remaining"])
}

func TestBookAppointment_SameDateIsIdempotent(t *testing.T) {
	r, _ := setupEndpointTest(t, 1)
	createPatient(t, r, "A", "1111111111")

	w, _ := bookAppointment(t, r, "A", "1111111111", "2030-01-15")
	assertStatus(t, w, http.StatusOK)

	w, resp := bookAppointment(t, r, "A", "1111111111", "2030-01-15")
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "Appointment already booked for this date", resp["msg"])
	assert.Equal(t, false, responseData(t, resp)["changed"])

	_, resp = doRequest(t, r, requestParams{method: "GET", path: "/appointment/2030-01-15"})
	assert.Equal(t, float64(1), responseData(t, resp)["booked"])
}

func TestBookAppointment_RebookFreesOldDate(t *testing.T) {
	r, db := setupEndpointTest(t, 1)
	createPatient(t, r, "A", "1111111111")
	createPatient(t, r, "B", "2222222222")

	w, _ := bookAppointment(t, r, "A", "1111111111", "2030-01-15")
	assertStatus(t, w, http.StatusOK)

	w, resp := bookAppointment(t, r, "A", "1111111111", "2030-01-16")
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "2030-01-15", responseData(t, resp)["previous_date"])

	w, _ = bookAppointment(t, r, "B", "2222222222", "2030-01-15")
	assertStatus(t, w, http.StatusOK)

	var patient model.Patient
	require.NoError(t, db.Where("name = ?", "A").Take(&patient).Error)
	require.NotNil(t, patient.AppointmentDate)
	assert.Equal(t, "2030-01-16", *patient.AppointmentDate)
}

func TestBookAppointment_Errors(t *testing.T) {
	r, _ := setupEndpointTest(t, 2)
	createPatient(t, r, "A", "1111111111")

	tests := []struct {
		name       string
		patient    string
		contact    string
		date       string
		wantStatus int
		wantErr    string
	}{
		{name: "unknown patient", patient: "Z", contact: "9999999999", date: "2030-01-15", wantStatus: http.StatusNotFound, wantErr: "patient not found"},
		{name: "five digit contact", patient: "A", contact: "11111", date: "2030-01-15", wantStatus: http.StatusNotFound, wantErr: "patient not found"},
		{name: "date in the past", patient: "A", contact: "1111111111", date: "2030-01-09", wantStatus: http.StatusBadRequest, wantErr: "appointment date cannot be in the past"},
		{name: "malformed date", patient: "A", contact: "1111111111", date: "15/01/2030", wantStatus: http.StatusBadRequest, wantErr: `invalid date "15/01/2030": expected 2006-01-02`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := bookAppointment(t, r, tt.patient, tt.contact, tt.date)
			assertStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantErr, resp["error"])
		})
	}
}

func TestBookAppointment_TodayIsAllowed(t *testing.T) {
	r, _ := setupEndpointTest(t, 2)
	createPatient(t, r, "A", "1111111111")

	w, _ := bookAppointment(t, r, "A", "1111111111", "2030-01-10")
	assertStatus(t, w, http.StatusOK)
}

func TestBookAppointment_ConcurrentRequests(t *testing.T) {
	const patients = 6
	const capacity = 3
	r, _ := setupEndpointTest(t, capacity)

	contacts := []string{"1000000001", "1000000002", "1000000003", "1000000004", "1000000005", "1000000006"}
	for i := 0; i < patients; i++ {
		createPatient(t, r, "P", contacts[i])
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		status = map[int]int{}
	)
	for i := 0; i < patients; i++ {
		wg.Add(1)
		go func(contact string) {
			defer wg.Done()
			w, _ := bookAppointment(t, r, "P", contact, "2030-02-01")
			mu.Lock()
			status[w.Code]++
			mu.Unlock()
		}(contacts[i])
	}
	wg.Wait()

	assert.Equal(t, capacity, status[http.StatusOK])
	assert.Equal(t, patients-capacity, status[http.StatusConflict])

	_, resp := doRequest(t, r, requestParams{method: "GET", path: "/appointment/2030-02-01"})
	assert.Equal(t, float64(capacity), responseData(t, resp)["booked"])
}

func TestGetAvailability(t *testing.T) {
	r, _ := setupEndpointTest(t, 5)

	w, resp := doRequest(t, r, requestParams{method: "GET", path: "/appointment/2030-03-01"})
	assertStatus(t, w, http.StatusOK)
	data := responseData(t, resp)
	assert.Equal(t, float64(0), data["booked"])
	assert.Equal(t, float64(5), data["remaining"])

	w, _ = doRequest(t, r, requestParams{method: "GET", path: "/appointment/yesterday"})
	assertStatus(t, w, http.StatusBadRequest)
}
