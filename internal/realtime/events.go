package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"karyab/client/internal/models"
)

// Envelope is the wire frame for every socket event: the event name plus a
// JSON payload simply passed through.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Wire event names. Outbound and inbound names differ for the job events
// because the server rebroadcasts them under a new name.
const (
	EventAuthenticate  = "authenticate"
	EventAuthenticated = "authenticated"
	EventError         = "error"
	EventConnectError  = "connect_error"

	EventPrivateMessage = "private-message"

	EventNewJob       = "new-job"
	EventNewJobPosted = "new-job-posted"

	EventJobApplication    = "job-application"
	EventNewJobApplication = "new-job-application"

	EventApplicationAccepted    = "application-accepted"
	EventJobApplicationAccepted = "job-application-accepted"
)

// Outgoing is implemented by every payload the client can publish.
type Outgoing interface {
	EventName() string
}

// Incoming is the tagged-variant union of events the server delivers.
// Consumers route with a type switch; no string matching happens past the
// Decode boundary.
type Incoming interface {
	isIncoming()
}

// Authenticate carries the bearer token, emitted immediately after the
// transport handshake succeeds.
type Authenticate struct {
	Token string `json:"token"`
}

func (Authenticate) EventName() string { return EventAuthenticate }

// AuthAck is the server's acknowledgement of an authenticate request. It is
// informational; publishing is already allowed once connected.
type AuthAck struct {
	UserID string `json:"userId,omitempty"`
}

func (AuthAck) isIncoming() {}

// ChannelFailure is a server-reported socket error. The channel stays up;
// transport-level failures surface through the reconnect path instead.
type ChannelFailure struct {
	Event   string `json:"-"`
	Message string `json:"message,omitempty"`
}

func (ChannelFailure) isIncoming() {}

// PrivateMessage is a direct chat message. Outbound it carries recipient,
// content and room key; inbound it carries the sender instead. Some server
// versions put the text under "message" rather than "content".
type PrivateMessage struct {
	ID         string `json:"id,omitempty"`
	Sender     string `json:"sender,omitempty"`
	SenderName string `json:"senderName,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Content    string `json:"content,omitempty"`
	Message    string `json:"message,omitempty"`
	RoomKey    string `json:"roomKey,omitempty"`
}

func (PrivateMessage) EventName() string { return EventPrivateMessage }
func (PrivateMessage) isIncoming()       {}

// Body returns the message text regardless of which field carried it.
func (m PrivateMessage) Body() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Message
}

// JobPosting announces a newly created job. Published by the employer as
// "new-job", delivered to specialists as "new-job-posted".
type JobPosting struct {
	JobID        string          `json:"jobId"`
	Title        string          `json:"title"`
	JobType      string          `json:"jobType"`
	Budget       int             `json:"budget"`
	Location     models.Location `json:"location"`
	EmployerID   string          `json:"employerId"`
	EmployerName string          `json:"employerName"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (JobPosting) EventName() string { return EventNewJob }
func (JobPosting) isIncoming()       {}

// SpecialistInfo is the applicant summary attached to a job application.
type SpecialistInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Job        string `json:"job,omitempty"`
	Experience int    `json:"experience,omitempty"`
}

// JobApplication announces that a specialist applied to a job. Published as
// "job-application" and delivered to the employer as "new-job-application".
type JobApplication struct {
	JobID          string         `json:"jobId"`
	JobTitle       string         `json:"jobTitle"`
	SpecialistID   string         `json:"specialistId"`
	SpecialistName string         `json:"specialistName"`
	EmployerID     string         `json:"employerId"`
	AppliedAt      time.Time      `json:"appliedAt"`
	Notes          string         `json:"notes,omitempty"`
	SpecialistInfo SpecialistInfo `json:"specialistInfo"`
}

func (JobApplication) EventName() string { return EventJobApplication }
func (JobApplication) isIncoming()       {}

// AcceptanceNotice announces that an employer accepted an applicant.
// Published as "application-accepted", delivered to the specialist as
// "job-application-accepted".
type AcceptanceNotice struct {
	JobID        string    `json:"jobId"`
	JobTitle     string    `json:"jobTitle"`
	SpecialistID string    `json:"specialistId"`
	EmployerID   string    `json:"employerId"`
	EmployerName string    `json:"employerName"`
	CompanyName  string    `json:"companyName,omitempty"`
	StartDate    time.Time `json:"startDate"`
}

func (AcceptanceNotice) EventName() string { return EventApplicationAccepted }
func (AcceptanceNotice) isIncoming()       {}

// Decode converts a wire envelope into its tagged variant. Unknown event
// names are an error so the caller can log and skip them.
func Decode(env Envelope) (Incoming, error) {
	switch env.Event {
	case EventAuthenticated:
		var ev AuthAck
		return ev, unmarshalData(env.Data, &ev)
	case EventError, EventConnectError:
		var ev ChannelFailure
		if err := unmarshalData(env.Data, &ev); err != nil {
			return nil, err
		}
		ev.Event = env.Event
		return ev, nil
	case EventPrivateMessage:
		var ev PrivateMessage
		return ev, unmarshalData(env.Data, &ev)
	case EventNewJobPosted:
		var ev JobPosting
		return ev, unmarshalData(env.Data, &ev)
	case EventNewJobApplication:
		var ev JobApplication
		return ev, unmarshalData(env.Data, &ev)
	case EventJobApplicationAccepted:
		var ev AcceptanceNotice
		return ev, unmarshalData(env.Data, &ev)
	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
