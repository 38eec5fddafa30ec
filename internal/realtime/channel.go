// Package realtime owns the dashboard's single socket connection: the
// connect/authenticate lifecycle, the bounded reconnection policy, and the
// typed event stream.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"karyab/client/internal/models"
)

// State is the channel lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateAuthenticated
	// StateDown is terminal: the reconnect budget is exhausted and no
	// further automatic retry happens. Realtime features degrade to
	// snapshot-only.
	StateDown
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateDown:
		return "down"
	default:
		return "disconnected"
	}
}

const (
	handshakeTimeout = 5 * time.Second
	writeWait        = 10 * time.Second
	redialDelay      = time.Second
	maxRedials       = 3
)

// Channel is the singleton socket connection of one dashboard instance:
// created on mount, torn down on unmount, never recreated mid-session.
type Channel struct {
	url    string
	token  string
	log    zerolog.Logger
	dialer *websocket.Dialer

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	// wmu serializes writes; gorilla allows one concurrent writer.
	wmu sync.Mutex

	events    chan Incoming
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel(url, token string, logger zerolog.Logger) *Channel {
	return &Channel{
		url:    url,
		token:  token,
		log:    logger.With().Str("component", "realtime").Logger(),
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		events: make(chan Incoming, 16),
		done:   make(chan struct{}),
	}
}

// Connect starts the connection lifecycle in the background. Without a
// token the channel never leaves the disconnected state.
func (c *Channel) Connect() error {
	if c.token == "" {
		return models.ErrNoToken
	}
	go c.run()
	return nil
}

func (c *Channel) run() {
	for attempt := 1; attempt <= maxRedials; attempt++ {
		select {
		case <-c.done:
			return
		default:
		}

		c.setState(StateConnecting)
		conn, resp, err := c.dialer.Dial(c.url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("socket connect failed")
			c.setState(StateDisconnected)
			select {
			case <-c.done:
				return
			case <-time.After(redialDelay):
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()
		c.log.Info().Str("url", c.url).Msg("socket connected")

		// The budget covers consecutive failures only; a successful
		// handshake resets it.
		attempt = 0

		if err := c.Publish(Authenticate{Token: c.token}); err != nil {
			c.log.Warn().Err(err).Msg("authenticate emit failed")
		}

		c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		if c.state != StateDown {
			c.state = StateDisconnected
		}
		c.mu.Unlock()

		select {
		case <-c.done:
			return
		default:
		}
	}

	c.setState(StateDown)
	c.log.Warn().Int("attempts", maxRedials).Msg("reconnect budget exhausted, channel stays down")
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn().Err(err).Msg("socket read failed")
			}
			return
		}

		ev, err := Decode(env)
		if err != nil {
			c.log.Debug().Str("event", env.Event).Msg("ignoring unknown event")
			continue
		}

		if _, ok := ev.(AuthAck); ok {
			c.mu.Lock()
			if c.state == StateConnected {
				c.state = StateAuthenticated
			}
			c.mu.Unlock()
			c.log.Info().Msg("socket authenticated")
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// Publish sends one event. Sends are allowed once the transport is
// connected; the authenticated ack is informational only.
func (c *Channel) Publish(out Outgoing) error {
	data, err := json.Marshal(out)
	if err != nil {
		return &models.ChannelError{Message: "encode event", Err: err}
	}

	c.mu.Lock()
	conn, st := c.conn, c.state
	c.mu.Unlock()
	if conn == nil || st < StateConnected || st == StateDown {
		return &models.ChannelError{Message: "channel unavailable"}
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Envelope{Event: out.EventName(), Data: data}); err != nil {
		return &models.ChannelError{Message: "publish " + out.EventName(), Err: err}
	}
	return nil
}

// Events is the inbound event stream. It is never closed; consumers should
// also select on Done.
func (c *Channel) Events() <-chan Incoming { return c.events }

// Done is closed when the channel is torn down.
func (c *Channel) Done() <-chan struct{} { return c.done }

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Close tears the channel down from any state. It is the only path that
// must run on every exit and is safe to call more than once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.state = StateDisconnected
		c.mu.Unlock()
	})
	return nil
}
