package models

import "time"

// Role identifies which side of the marketplace a dashboard instance serves.
type Role string

const (
	RoleEmployer   Role = "employer"
	RoleSpecialist Role = "specialist"
)

// CounterpartRole returns the role of the other party in a chat.
func (r Role) CounterpartRole() Role {
	if r == RoleEmployer {
		return RoleSpecialist
	}
	return RoleEmployer
}

// Contact is one entry in the contact directory: the counterpart of a chat
// plus the transient flags the dashboard renders next to it.
type Contact struct {
	ID                string
	Name              string
	RoleLabel         string
	Online            bool
	UnreadCount       int
	HasUnread         bool
	HasNewApplication bool
}

// Direction marks whether a chat message was sent or received locally.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// Message is one entry in a chat session log. The ID of an outgoing message
// is locally generated and never reconciled with a server-assigned one.
type Message struct {
	ID        string
	Direction Direction
	Body      string
	SentAt    time.Time
}

// Notification is the single-slot transient notice shown to the user.
// A new one overwrites the previous; there is no queue and no history.
type Notification struct {
	Kind    string
	Message string
	Time    time.Time
}

// Notification kinds the dashboards raise.
const (
	NoteNewMessage         = "new-message"
	NoteNewApplication     = "new-application"
	NoteNewJob             = "new-job"
	NoteJobPosted          = "job-posted"
	NoteJobApplied         = "job-applied"
	NoteJobAccepted        = "job-accepted"
	NoteSpecialistAccepted = "specialist-accepted"
	NoteError              = "error"
)
