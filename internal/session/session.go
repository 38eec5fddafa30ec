// Package session models the single currently-open chat conversation and
// its append-only message log.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"karyab/client/internal/models"
)

// RoomKey derives the shared identifier for a two-party conversation: the
// participant ids sorted lexicographically and joined with "-". Both ends
// compute the identical key without a server-assigned session id.
func RoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// Session is one open conversation. Each instance owns its own log; opening
// a chat with another contact creates a fresh Session rather than reusing
// this one. The log only grows while the session is open.
type Session struct {
	counterpart models.Contact
	roomKey     string
	messages    []models.Message
	now         func() time.Time
}

// New opens a session between the local user and the counterpart.
func New(selfID string, counterpart models.Contact) *Session {
	return &Session{
		counterpart: counterpart,
		roomKey:     RoomKey(selfID, counterpart.ID),
		now:         time.Now,
	}
}

func (s *Session) Counterpart() models.Contact { return s.counterpart }

func (s *Session) RoomKey() string { return s.roomKey }

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// AppendOutgoing records a message the local user sent. The id is locally
// generated and provisional; no reconciliation with a server id happens.
func (s *Session) AppendOutgoing(body string) models.Message {
	msg := models.Message{
		ID:        uuid.NewString(),
		Direction: models.Outgoing,
		Body:      body,
		SentAt:    s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// AppendIncoming records a message from the counterpart. The caller is
// responsible for checking that the sender is this session's counterpart.
func (s *Session) AppendIncoming(id, body string) models.Message {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	msg := models.Message{
		ID:        id,
		Direction: models.Incoming,
		Body:      body,
		SentAt:    s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}
