package util

import (
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ariebrainware/clinic-booking/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventPatientCreated      AuditEventType = "PATIENT_CREATED"
	EventPatientRejected     AuditEventType = "PATIENT_REJECTED"
	EventAppointmentBooked   AuditEventType = "APPOINTMENT_BOOKED"
	EventAppointmentRejected AuditEventType = "APPOINTMENT_REJECTED"
	EventRateLimitExceeded   AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity  AuditEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall        AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents an event to be logged
type AuditEvent struct {
	EventType AuditEventType
	PatientID string
	Date      string
	IP        string
	UserAgent string
	RequestID string
	Message   string
	Details   map[string]interface{}
}

var (
	auditMu     sync.RWMutex
	auditLogger = zap.NewNop()
	auditDB     *gorm.DB
	auditGeo    *GeoLocator
)

// SetAuditLogger sets the zap logger audit events are written to.
func SetAuditLogger(logger *zap.Logger) {
	auditMu.Lock()
	defer auditMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	auditLogger = logger.Named("audit")
}

// SetAuditLoggerDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditMu.Lock()
	defer auditMu.Unlock()
	auditDB = db
}

// SetAuditGeoLocator enables city and country enrichment of persisted events.
func SetAuditGeoLocator(g *GeoLocator) {
	auditMu.Lock()
	defer auditMu.Unlock()
	auditGeo = g
}

const maxLogValueRunes = 200

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	value = strings.ToValidUTF8(value, "\uFFFD")
	// Truncate very long values to prevent log flooding
	if utf8.RuneCountInString(value) > maxLogValueRunes {
		value = string([]rune(value)[:maxLogValueRunes]) + "..."
	}
	return value
}

// LogAuditEvent logs an event and persists it when a DB is configured.
// Persisting is best-effort: a failed write is logged, never returned.
func LogAuditEvent(event AuditEvent) {
	auditMu.RLock()
	logger, db, geo := auditLogger, auditDB, auditGeo
	auditMu.RUnlock()

	entry := model.AuditLog{
		EventType: sanitizeLogValue(string(event.EventType)),
		PatientID: sanitizeLogValue(event.PatientID),
		Date:      sanitizeLogValue(event.Date),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		RequestID: sanitizeLogValue(event.RequestID),
		Message:   sanitizeLogValue(event.Message),
	}

	logger.Info(entry.Message,
		zap.String("event", entry.EventType),
		zap.String("patient_id", entry.PatientID),
		zap.String("date", entry.Date),
		zap.String("ip", entry.IP),
		zap.String("user_agent", entry.UserAgent),
		zap.String("request_id", entry.RequestID),
		zap.Int("details_count", len(event.Details)),
	)

	if db == nil {
		return
	}
	details := event.Details
	if city, country := geo.Locate(event.IP); country != "" {
		details = make(map[string]interface{}, len(event.Details)+2)
		for k, v := range event.Details {
			details[k] = v
		}
		details["city"] = city
		details["country"] = country
	}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Warn("failed to persist audit event", zap.String("event", entry.EventType), zap.Error(err))
	}
}
