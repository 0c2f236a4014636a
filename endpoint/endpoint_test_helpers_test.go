package endpoint

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/config"
	"github.com/ariebrainware/clinic-booking/middleware"
	"github.com/ariebrainware/clinic-booking/model"
	"github.com/ariebrainware/clinic-booking/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testToday is the clinic's "today" in endpoint tests.
var testToday = time.Date(2030, time.January, 10, 9, 0, 0, 0, time.UTC)

// setupEndpointTest returns a router with every route registered against a
// fresh in-memory database and a service limited to capacity bookings per date.
func setupEndpointTest(t *testing.T, capacity int) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APPENV", "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := config.ConnectDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, model.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := booking.NewService(store.NewGormStore(db), booking.Options{
		Scheduler: booking.SchedulerConfig{
			Capacity: capacity,
			Clock:    booking.ClockFunc(func() time.Time { return testToday }),
			Location: time.UTC,
		},
	})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.DatabaseMiddleware(db), middleware.ServiceMiddleware(svc))
	r.POST("/patient", CreatePatient)
	r.GET("/patient", ListPatients)
	r.GET("/patient/lookup", FindPatient)
	r.POST("/appointment", BookAppointment)
	r.GET("/appointment/:date", GetAvailability)
	r.GET("/health", HealthCheck)
	return r, db
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method string
	path   string
	body   interface{}
}

// doRequest executes an HTTP request and decodes the response envelope.
func doRequest(t *testing.T, r http.Handler, params requestParams) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var body []byte
	switch b := params.body.(type) {
	case nil:
	case string:
		body = []byte(b)
	default:
		var err error
		body, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(params.method, params.path, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, w.Body.String())
}

// responseData returns the data object of a response envelope.
func responseData(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", resp["data"])
	return data
}

func createPatient(t *testing.T, r http.Handler, name, contact string) {
	t.Helper()
	w, _ := doRequest(t, r, requestParams{
		method: "POST",
		path:   "/patient",
		body:   map[string]interface{}{"name": name, "age": 40, "gender": "Female", "contact": contact},
	})
	assertStatus(t, w, http.StatusOK)
}

func bookAppointment(t *testing.T, r http.Handler, name, contact, date string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return doRequest(t, r, requestParams{
		method: "POST",
		path:   "/appointment",
		body:   map[string]string{"name": name, "contact": contact, "date": date},
	})
}
