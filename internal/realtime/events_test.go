package realtime_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyab/client/internal/realtime"
)

func env(event, data string) realtime.Envelope {
	return realtime.Envelope{Event: event, Data: json.RawMessage(data)}
}

func TestDecode_PrivateMessage(t *testing.T) {
	ev, err := realtime.Decode(env("private-message",
		`{"sender":"u1","senderName":"Alice","content":"hello","roomKey":"u1-u2"}`))
	require.NoError(t, err)

	msg, ok := ev.(realtime.PrivateMessage)
	require.True(t, ok)
	assert.Equal(t, "u1", msg.Sender)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.Equal(t, "hello", msg.Body())
	assert.Equal(t, "u1-u2", msg.RoomKey)
}

func TestDecode_PrivateMessageLegacyField(t *testing.T) {
	// Older server builds carry the text under "message".
	ev, err := realtime.Decode(env("private-message", `{"sender":"u1","message":"hi"}`))
	require.NoError(t, err)

	msg := ev.(realtime.PrivateMessage)
	assert.Equal(t, "hi", msg.Body())
}

func TestDecode_JobEvents(t *testing.T) {
	ev, err := realtime.Decode(env("new-job-posted",
		`{"jobId":"j1","title":"Fix sink","budget":500,"employerId":"e1"}`))
	require.NoError(t, err)
	posting := ev.(realtime.JobPosting)
	assert.Equal(t, "j1", posting.JobID)
	assert.Equal(t, 500, posting.Budget)

	ev, err = realtime.Decode(env("new-job-application",
		`{"jobId":"j1","specialistId":"s1","specialistName":"Bob","employerId":"e1"}`))
	require.NoError(t, err)
	app := ev.(realtime.JobApplication)
	assert.Equal(t, "s1", app.SpecialistID)

	ev, err = realtime.Decode(env("job-application-accepted",
		`{"jobId":"j1","specialistId":"s1","employerName":"Acme"}`))
	require.NoError(t, err)
	notice := ev.(realtime.AcceptanceNotice)
	assert.Equal(t, "Acme", notice.EmployerName)
}

func TestDecode_AuthAck(t *testing.T) {
	ev, err := realtime.Decode(env("authenticated", `{"userId":"u1"}`))
	require.NoError(t, err)
	assert.Equal(t, realtime.AuthAck{UserID: "u1"}, ev)
}

func TestDecode_ErrorKeepsEventName(t *testing.T) {
	ev, err := realtime.Decode(env("connect_error", `{"message":"boom"}`))
	require.NoError(t, err)

	failure := ev.(realtime.ChannelFailure)
	assert.Equal(t, "connect_error", failure.Event)
	assert.Equal(t, "boom", failure.Message)
}

func TestDecode_EmptyDataIsFine(t *testing.T) {
	ev, err := realtime.Decode(realtime.Envelope{Event: "authenticated"})
	require.NoError(t, err)
	assert.IsType(t, realtime.AuthAck{}, ev)
}

func TestDecode_UnknownEvent(t *testing.T) {
	_, err := realtime.Decode(env("user-typing", `{}`))
	assert.Error(t, err)
}

func TestOutgoingEventNames(t *testing.T) {
	assert.Equal(t, "authenticate", realtime.Authenticate{}.EventName())
	assert.Equal(t, "private-message", realtime.PrivateMessage{}.EventName())
	assert.Equal(t, "new-job", realtime.JobPosting{}.EventName())
	assert.Equal(t, "job-application", realtime.JobApplication{}.EventName())
	assert.Equal(t, "application-accepted", realtime.AcceptanceNotice{}.EventName())
}
