package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"karyab/client/internal/models"
	"karyab/client/internal/session"
)

func TestRoomKey_SymmetricAcrossParticipants(t *testing.T) {
	assert.Equal(t, session.RoomKey("alice", "bob"), session.RoomKey("bob", "alice"))
	assert.Equal(t, "alice-bob", session.RoomKey("bob", "alice"))
}

func TestSession_RoomKeyMatchesCounterpartDerivation(t *testing.T) {
	s := session.New("me", models.Contact{ID: "them"})
	assert.Equal(t, session.RoomKey("them", "me"), s.RoomKey())
}

func TestSession_AppendKeepsOrder(t *testing.T) {
	s := session.New("me", models.Contact{ID: "them", Name: "Them"})

	s.AppendOutgoing("hello")
	s.AppendIncoming("srv-1", "hi there")
	s.AppendOutgoing("how are you")

	msgs := s.Messages()
	assert.Len(t, msgs, 3)
	assert.Equal(t, models.Outgoing, msgs[0].Direction)
	assert.Equal(t, "hello", msgs[0].Body)
	assert.Equal(t, models.Incoming, msgs[1].Direction)
	assert.Equal(t, "srv-1", msgs[1].ID)
	assert.Equal(t, "how are you", msgs[2].Body)
}

func TestSession_AppendOutgoingGeneratesID(t *testing.T) {
	s := session.New("me", models.Contact{ID: "them"})

	a := s.AppendOutgoing("one")
	b := s.AppendOutgoing("two")

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSession_AppendIncomingFallsBackToGeneratedID(t *testing.T) {
	s := session.New("me", models.Contact{ID: "them"})

	msg := s.AppendIncoming("  ", "no id on the wire")
	assert.NotEmpty(t, msg.ID)
	assert.NotEqual(t, "  ", msg.ID)
}

func TestSession_MessagesReturnsCopy(t *testing.T) {
	s := session.New("me", models.Contact{ID: "them"})
	s.AppendOutgoing("hello")

	msgs := s.Messages()
	msgs[0].Body = "mutated"

	assert.Equal(t, "hello", s.Messages()[0].Body)
}
