package sandbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"karyab/client/internal/realtime"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	authTimeout = 10 * time.Second

	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dev server, any origin is fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub keeps the set of authenticated socket clients and relays job and chat
// events between them.
type Hub struct {
	store  *Store
	secret []byte
	log    zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*hubClient
}

type hubClient struct {
	user *User
	conn *websocket.Conn
	send chan realtime.Envelope
}

func NewHub(store *Store, secret []byte, log zerolog.Logger) *Hub {
	return &Hub{
		store:   store,
		secret:  secret,
		log:     log.With().Str("component", "hub").Logger(),
		clients: make(map[string]*hubClient),
	}
}

// ServeWS upgrades the request and hands the connection to the hub. The
// client must send an authenticate event before anything else.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	go h.handle(conn)
}

func (h *Hub) handle(conn *websocket.Conn) {
	client, err := h.authenticate(conn)
	if err != nil {
		h.log.Warn().Err(err).Msg("socket rejected")
		_ = writeEnvelope(conn, realtime.EventError, map[string]string{"message": err.Error()})
		conn.Close()
		return
	}

	h.register(client)
	h.log.Info().Str("user", client.user.ID).Str("type", client.user.UserType).Msg("socket connected")

	client.send <- mustEnvelope(realtime.EventAuthenticated, realtime.AuthAck{UserID: client.user.ID})

	go client.writePump()
	h.readLoop(client)
}

// authenticate waits for the initial authenticate frame and validates the
// bearer token it carries.
func (h *Hub) authenticate(conn *websocket.Conn) (*hubClient, error) {
	conn.SetReadDeadline(time.Now().Add(authTimeout))

	var env realtime.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		return nil, fmt.Errorf("reading handshake: %w", err)
	}
	if env.Event != realtime.EventAuthenticate {
		return nil, fmt.Errorf("expected %s, got %q", realtime.EventAuthenticate, env.Event)
	}

	var auth realtime.Authenticate
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		return nil, fmt.Errorf("decoding handshake: %w", err)
	}

	userID, err := h.verifyToken(auth.Token)
	if err != nil {
		return nil, err
	}
	user, err := h.store.UserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("unknown user %s", userID)
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &hubClient{
		user: user,
		conn: conn,
		send: make(chan realtime.Envelope, sendBuffer),
	}, nil
}

func (h *Hub) verifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("token missing user_id")
	}
	return userID, nil
}

func (h *Hub) register(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.clients[c.user.ID]; ok {
		close(prev.send)
		prev.conn.Close()
	}
	h.clients[c.user.ID] = c
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.user.ID] == c {
		delete(h.clients, c.user.ID)
		close(c.send)
	}
}

func (h *Hub) readLoop(c *hubClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Info().Str("user", c.user.ID).Msg("socket disconnected")
	}()

	for {
		var env realtime.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("user", c.user.ID).Msg("socket read error")
			}
			return
		}
		h.route(c, env)
	}
}

// route relays a client event to its audience. Job events are rebroadcast
// under their delivery name so senders never see their own announcements.
func (h *Hub) route(c *hubClient, env realtime.Envelope) {
	switch env.Event {
	case realtime.EventPrivateMessage:
		var msg realtime.PrivateMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			h.log.Warn().Err(err).Msg("bad private-message payload")
			return
		}
		msg.Sender = c.user.ID
		msg.SenderName = c.user.Name
		h.sendTo(msg.Recipient, realtime.EventPrivateMessage, msg)

	case realtime.EventNewJob:
		var posting realtime.JobPosting
		if err := json.Unmarshal(env.Data, &posting); err != nil {
			h.log.Warn().Err(err).Msg("bad new-job payload")
			return
		}
		h.broadcast(userTypeSpecialist, c.user.ID, realtime.EventNewJobPosted, posting)

	case realtime.EventJobApplication:
		var app realtime.JobApplication
		if err := json.Unmarshal(env.Data, &app); err != nil {
			h.log.Warn().Err(err).Msg("bad job-application payload")
			return
		}
		h.sendTo(app.EmployerID, realtime.EventNewJobApplication, app)

	case realtime.EventApplicationAccepted:
		var notice realtime.AcceptanceNotice
		if err := json.Unmarshal(env.Data, &notice); err != nil {
			h.log.Warn().Err(err).Msg("bad application-accepted payload")
			return
		}
		h.sendTo(notice.SpecialistID, realtime.EventJobApplicationAccepted, notice)

	default:
		h.log.Debug().Str("event", env.Event).Msg("ignoring event")
	}
}

// sendTo queues an event for one user. Offline users just miss it, the
// dashboards resync over REST. The lock is held across the send: register
// and unregister close the send channel under the write lock, so queueing
// outside it could race a reconnect and hit a closed channel.
func (h *Hub) sendTo(userID, event string, payload any) {
	env := mustEnvelope(event, payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case c.send <- env:
	default:
		h.log.Warn().Str("user", userID).Msg("send buffer full, dropping event")
	}
}

// broadcast queues an event for every connected user of the given type,
// except the sender.
func (h *Hub) broadcast(userType, senderID, event string, payload any) {
	env := mustEnvelope(event, payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == senderID || c.user.UserType != userType {
			continue
		}
		select {
		case c.send <- env:
		default:
		}
	}
}

func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func mustEnvelope(event string, payload any) realtime.Envelope {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("marshal %s payload: %v", event, err))
	}
	return realtime.Envelope{Event: event, Data: data}
}

func writeEnvelope(conn *websocket.Conn, event string, payload any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(mustEnvelope(event, payload))
}
