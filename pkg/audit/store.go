package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

const (
	insertMessage = `INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectRecent = `SELECT facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message
FROM messages
WHERE ($1 = '' OR msgid = $1)
ORDER BY timestamp DESC
LIMIT $2`
)

// Message is an audit event as persisted in the messages table.
type Message struct {
	Facility  int                          `json:"facility"`
	Severity  int                          `json:"severity"`
	Timestamp time.Time                    `json:"timestamp"`
	Hostname  string                       `json:"hostname"`
	Appname   string                       `json:"appname"`
	Procid    string                       `json:"procid"`
	Msgid     string                       `json:"msgid"`
	Sdata     map[string]map[string]string `json:"sdata"`
	Message   string                       `json:"message"`
}

// Store persists audit messages with database/sql. A Store without a
// database discards everything.
type Store struct {
	db       *sql.DB
	hostname string
	procid   string
	now      func() time.Time
}

// Open connects a Store to the PostgreSQL database at dbURL.
func Open(dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store with an existing database connection.
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{
		db:       db,
		hostname: hostname,
		procid:   strconv.Itoa(os.Getpid()),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// storeFromEnv opens the store named by AUDIT_DATABASE_URL, or returns nil
// when it is unset.
func storeFromEnv() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}
	return Open(dbURL)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) message(event Event) Message {
	return Message{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: s.now(),
		Hostname:  s.hostname,
		Appname:   appName,
		Procid:    s.procid,
		Msgid:     event.MessageID(),
		Sdata:     event.StructuredData(),
		Message:   event.Message(),
	}
}

// Save persists an event.
func (s *Store) Save(ctx context.Context, event Event) error {
	if s.db == nil {
		return nil
	}

	m := s.message(event)
	sdata, err := json.Marshal(m.Sdata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, insertMessage,
		m.Facility, m.Severity, m.Timestamp, m.Hostname, m.Appname, m.Procid, m.Msgid, sdata, m.Message)
	return err
}

// Recent returns the latest messages, newest first. An empty msgid matches
// every message.
func (s *Store) Recent(ctx context.Context, msgid string, limit int) ([]Message, error) {
	if s.db == nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, selectRecent, msgid, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []Message
	for rows.Next() {
		var (
			m                                     Message
			hostname, appname, procid, msgidField sql.NullString
			sdata                                 []byte
		)
		if err := rows.Scan(&m.Facility, &m.Severity, &m.Timestamp, &hostname, &appname, &procid, &msgidField, &sdata, &m.Message); err != nil {
			return nil, err
		}
		m.Hostname, m.Appname, m.Procid, m.Msgid = hostname.String, appname.String, procid.String, msgidField.String
		if len(sdata) > 0 {
			if err := json.Unmarshal(sdata, &m.Sdata); err != nil {
				return nil, fmt.Errorf("message %s at %s has malformed sdata: %w", m.Msgid, m.Timestamp, err)
			}
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
