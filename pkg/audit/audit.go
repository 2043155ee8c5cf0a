package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doodlesbykumbi/feedbox/pkg/log"
)

// SDID constants for structured data IDs (RFC5424). 32473 is the
// documentation enterprise number of RFC 5612.
const (
	PEN         = 32473
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
)

// Syslog facility constants
const (
	FacilityUser     = 1  // LOG_USER - user-level messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
)

const appName = "feedbox"

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger writes events as RFC5424 syslog lines, one per event.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	pid      int
	now      func() time.Time
}

// NewLogger creates a logger writing to stdout.
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "-"
	}
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		pid:      os.Getpid(),
		now:      time.Now,
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

func (l *Logger) Log(event Event) {
	line := l.Format(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

// Format renders an event as
// <PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG followed by a newline.
func (l *Logger) Format(event Event) string {
	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%d>1 %s %s %s %d %s %s %s\n",
		event.Facility()*8+int(event.Severity()),
		l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		l.hostname,
		appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)
	return b.String()
}

// formatStructuredData formats the structured data according to RFC5424.
// SD elements and their params are sorted for stable output.
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	sdids := make([]string, 0, len(sd))
	for sdid := range sd {
		sdids = append(sdids, sdid)
	}
	sort.Strings(sdids)

	var parts []string
	for _, sdid := range sdids {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		paramParts := []string{sdid}
		for _, key := range keys {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// DefaultLogger is the process-wide audit logger.
var DefaultLogger = NewLogger()

// DefaultStore persists events when AUDIT_DATABASE_URL is set, nil otherwise.
var DefaultStore *Store

// Audit is on unless FEEDBOX_AUDIT_ENABLED is false, 0 or no.
var (
	auditEnabled     = true
	auditEnabledOnce sync.Once
	storeInitOnce    sync.Once
)

// IsEnabled returns whether audit logging is enabled
func IsEnabled() bool {
	auditEnabledOnce.Do(func() {
		if env := os.Getenv("FEEDBOX_AUDIT_ENABLED"); env != "" {
			auditEnabled = env != "false" && env != "0" && env != "no"
		}
	})
	return auditEnabled
}

// SetEnabled allows programmatic control of audit logging.
// Call it before any Log calls.
func SetEnabled(enabled bool) {
	auditEnabledOnce.Do(func() {})
	auditEnabled = enabled
}

const saveTimeout = 2 * time.Second

// Log writes an event to the default logger and store (if audit is enabled)
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	storeInitOnce.Do(func() {
		var err error
		DefaultStore, err = storeFromEnv()
		if err != nil {
			log.WithError(err).Error("audit: failed to connect to audit database")
		}
	})
	if DefaultStore == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := DefaultStore.Save(ctx, event); err != nil {
		log.WithError(err).WithField("msgid", event.MessageID()).Error("audit: failed to save event")
	}
}
