// Package realtime is the push-channel client. The backend broadcasts full
// order snapshots and staff calls on named topics; this client maintains
// one websocket connection, fans messages out to topic handlers, and quietly
// re-establishes the connection (and its subscriptions) after a drop.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/metrics"

	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

// Topic helpers for the three streams the backend publishes.
func KitchenTopic(storeID int64) string {
	return fmt.Sprintf("/topic/kitchen/%d", storeID)
}

func StaffTopic(storeID int64) string {
	return fmt.Sprintf("/topic/staff/%d", storeID)
}

func TableTopic(tableID int64) string {
	return fmt.Sprintf("/topic/table/%d", tableID)
}

// CallStaffDestination is where customer views publish staff calls.
const CallStaffDestination = "/app/call-staff"

type frameType string

const (
	frameSubscribe   frameType = "SUBSCRIBE"
	frameUnsubscribe frameType = "UNSUBSCRIBE"
	frameMessage     frameType = "MESSAGE"
	frameSend        frameType = "SEND"
)

type frame struct {
	Type        frameType       `json:"type"`
	Topic       string          `json:"topic,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

// Handler receives the raw body of one pushed message. Handlers run on the
// read loop goroutine; keep them short.
type Handler func(body []byte)

// Options configures the channel connection.
type Options struct {
	URL              string
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
	Logger           *logger.Logger
	Metrics          *metrics.ChannelMetrics
}

// Conn is one push-channel connection with its topic subscriptions.
type Conn struct {
	opts   Options
	dialer *websocket.Dialer

	mu        sync.Mutex
	ws        *websocket.Conn
	subs      map[string][]*Subscription
	connected bool
	closed    bool
	done      chan struct{}

	writeMu sync.Mutex
}

// New prepares a connection; nothing is dialed until Connect.
func New(opts Options) *Conn {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	return &Conn{
		opts: opts,
		dialer: &websocket.Dialer{
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		subs: make(map[string][]*Subscription),
		done: make(chan struct{}),
	}
}

// Connect blocks until the channel is up or the context ends, retrying on
// the fixed reconnect delay. It is the awaited initialization step that
// replaces polling for transport availability.
func (c *Conn) Connect(ctx context.Context) error {
	for {
		ws, _, err := c.dialer.DialContext(ctx, c.opts.URL, nil)
		if err == nil {
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				_ = ws.Close()
				return pkgerrors.New(pkgerrors.CodeChannelUnavailable, "channel closed during connect")
			}
			c.ws = ws
			c.connected = true
			c.mu.Unlock()
			c.log(ctx, "push channel connected")
			go c.readLoop(ws)
			return nil
		}

		c.log(ctx, "push channel dial failed, retrying")
		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeChannelUnavailable, ctx.Err(), "connecting push channel")
		case <-c.done:
			return pkgerrors.New(pkgerrors.CodeChannelUnavailable, "channel closed during connect")
		case <-time.After(c.opts.ReconnectDelay):
		}
	}
}

// Connected reports whether the channel is currently usable.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribe registers a handler for a topic and returns an owning handle.
// The SUBSCRIBE frame is sent once per topic and re-sent after reconnects.
func (c *Conn) Subscribe(topic string, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeChannelUnavailable, "nil handler")
	}

	sub := &Subscription{conn: c, topic: topic, handler: handler}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeChannelUnavailable, "channel closed")
	}
	first := len(c.subs[topic]) == 0
	c.subs[topic] = append(c.subs[topic], sub)
	connected := c.connected
	c.mu.Unlock()

	if first && connected {
		if err := c.writeFrame(frame{Type: frameSubscribe, Topic: topic}); err != nil {
			sub.Unsubscribe()
			return nil, err
		}
	}
	return sub, nil
}

// Publish sends a message toward an application destination. Fails fast
// when the channel is down; the caller reports a connection error.
func (c *Conn) Publish(destination string, payload any) error {
	c.mu.Lock()
	connected := c.connected && !c.closed
	c.mu.Unlock()
	if !connected {
		return pkgerrors.New(pkgerrors.CodeChannelUnavailable, "push channel not connected")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeChannelUnavailable, err, "encoding publish body")
	}
	return c.writeFrame(frame{Type: frameSend, Destination: destination, Body: body})
}

// Close tears the channel down and releases every subscription.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	ws := c.ws
	c.ws = nil
	c.subs = make(map[string][]*Subscription)
	close(c.done)
	c.mu.Unlock()

	if ws != nil {
		return ws.Close()
	}
	return nil
}

func (c *Conn) readLoop(ws *websocket.Conn) {
	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			c.handleDrop(ws)
			return
		}

		var fr frame
		if err := json.Unmarshal(payload, &fr); err != nil {
			c.log(context.Background(), "discarding malformed channel frame")
			continue
		}
		if fr.Type != frameMessage {
			continue
		}

		c.opts.Metrics.IncMessage(topicKind(fr.Topic))
		for _, sub := range c.handlersFor(fr.Topic) {
			sub.handler(fr.Body)
		}
	}
}

func (c *Conn) handlersFor(topic string) []*Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	subs := make([]*Subscription, len(c.subs[topic]))
	copy(subs, c.subs[topic])
	return subs
}

// handleDrop runs after a read failure: reconnect on the fixed delay and
// replay the SUBSCRIBE frames, silently, until Close.
func (c *Conn) handleDrop(old *websocket.Conn) {
	_ = old.Close()

	c.mu.Lock()
	if c.closed || c.ws != old {
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.ws = nil
	c.mu.Unlock()

	c.log(context.Background(), "push channel dropped, reconnecting")

	for {
		select {
		case <-c.done:
			return
		case <-time.After(c.opts.ReconnectDelay):
		}

		ws, _, err := c.dialer.DialContext(context.Background(), c.opts.URL, nil)
		if err != nil {
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = ws.Close()
			return
		}
		c.ws = ws
		c.connected = true
		topics := make([]string, 0, len(c.subs))
		for topic, subs := range c.subs {
			if len(subs) > 0 {
				topics = append(topics, topic)
			}
		}
		c.mu.Unlock()

		c.opts.Metrics.IncReconnect()
		for _, topic := range topics {
			_ = c.writeFrame(frame{Type: frameSubscribe, Topic: topic})
		}
		c.log(context.Background(), "push channel reconnected")
		go c.readLoop(ws)
		return
	}
}

func (c *Conn) writeFrame(fr frame) error {
	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws == nil {
		return pkgerrors.New(pkgerrors.CodeChannelUnavailable, "push channel not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := ws.WriteJSON(fr); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeChannelUnavailable, err, "writing channel frame")
	}
	return nil
}

func (c *Conn) log(ctx context.Context, msg string) {
	if c.opts.Logger == nil {
		return
	}
	c.opts.Logger.Debug(ctx, msg)
}

// topicKind strips ids so metrics labels stay low-cardinality.
func topicKind(topic string) string {
	switch {
	case len(topic) >= len("/topic/kitchen/") && topic[:len("/topic/kitchen/")] == "/topic/kitchen/":
		return "kitchen"
	case len(topic) >= len("/topic/staff/") && topic[:len("/topic/staff/")] == "/topic/staff/":
		return "staff"
	case len(topic) >= len("/topic/table/") && topic[:len("/topic/table/")] == "/topic/table/":
		return "table"
	}
	return "unknown"
}

// Subscription is an owning handle for one topic registration. Release it
// with Unsubscribe (or Close, for session ownership); both are idempotent.
type Subscription struct {
	conn    *Conn
	topic   string
	handler Handler
	once    sync.Once
}

func (s *Subscription) Topic() string {
	return s.topic
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		c := s.conn
		c.mu.Lock()
		remaining := c.subs[s.topic][:0]
		for _, sub := range c.subs[s.topic] {
			if sub != s {
				remaining = append(remaining, sub)
			}
		}
		c.subs[s.topic] = remaining
		last := len(remaining) == 0
		connected := c.connected && !c.closed
		c.mu.Unlock()

		if last && connected {
			_ = c.writeFrame(frame{Type: frameUnsubscribe, Topic: s.topic})
		}
	})
}

// Close implements io.Closer so a session can own the handle.
func (s *Subscription) Close() error {
	s.Unsubscribe()
	return nil
}
