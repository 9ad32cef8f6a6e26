// Package qrtest is an in-process stand-in for the qrorder backend: a chi
// router for the REST surface plus a websocket hub speaking the push-channel
// frame protocol. Tests script the REST routes they need and push order
// snapshots onto topics.
package qrtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/qrorder-vn/qrorder-client/internal/models"
)

// Account is a login the fake backend accepts.
type Account struct {
	Password string
	Role     string
	StoreID  int64
}

type channelFrame struct {
	Type        string          `json:"type"`
	Topic       string          `json:"topic,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

// SentMessage is a frame a client published toward an app destination.
type SentMessage struct {
	Destination string
	Body        json.RawMessage
}

type Server struct {
	Mux *chi.Mux

	mu        sync.Mutex
	accounts  map[string]Account
	subdomain string
	conns     map[*wsConn]struct{}
	sent      []SentMessage

	httpServer *httptest.Server
	upgrader   websocket.Upgrader
}

type wsConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	topics  map[string]struct{}
}

// NewServer starts the fake backend. Callers register extra REST routes on
// Mux before exercising them.
func NewServer() *Server {
	s := &Server{
		Mux:       chi.NewRouter(),
		accounts:  map[string]Account{},
		subdomain: "pho-hung",
		conns:     map[*wsConn]struct{}{},
	}
	s.Mux.Post("/api/auth/login", s.handleLogin)
	s.Mux.Get("/ws", s.handleWS)
	s.httpServer = httptest.NewServer(s.Mux)
	return s
}

func (s *Server) Close() {
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.ws.Close()
	}
	s.conns = map[*wsConn]struct{}{}
	s.mu.Unlock()
	s.httpServer.Close()
}

// APIBase is the REST base URL clients should use.
func (s *Server) APIBase() string {
	return s.httpServer.URL + "/api"
}

// ChannelURL is the websocket URL of the push channel.
func (s *Server) ChannelURL() string {
	return "ws" + strings.TrimPrefix(s.httpServer.URL, "http") + "/ws"
}

// AddAccount registers a login the fake backend will accept.
func (s *Server) AddAccount(username string, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = account
}

// SetSubdomain changes the tenant subdomain returned at login.
func (s *Server) SetSubdomain(subdomain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subdomain = subdomain
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	account, ok := s.accounts[req.Username]
	subdomain := s.subdomain
	s.mu.Unlock()
	if !ok || account.Password != req.Password {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     req.Username,
		"role":    account.Role,
		"storeId": account.StoreID,
	})
	signed, err := token.SignedString([]byte("qrtest-secret"))
	if err != nil {
		http.Error(w, "mint failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(models.AuthResponse{JWT: signed, Subdomain: subdomain})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &wsConn{ws: ws, topics: map[string]struct{}{}}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var fr channelFrame
		if err := json.Unmarshal(payload, &fr); err != nil {
			continue
		}
		s.mu.Lock()
		switch fr.Type {
		case "SUBSCRIBE":
			conn.topics[fr.Topic] = struct{}{}
		case "UNSUBSCRIBE":
			delete(conn.topics, fr.Topic)
		case "SEND":
			s.sent = append(s.sent, SentMessage{Destination: fr.Destination, Body: fr.Body})
		}
		s.mu.Unlock()
	}
}

// Push broadcasts a MESSAGE frame to every connection subscribed to topic.
func (s *Server) Push(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	fr := channelFrame{Type: "MESSAGE", Topic: topic, Body: body}

	s.mu.Lock()
	targets := make([]*wsConn, 0, len(s.conns))
	for conn := range s.conns {
		if _, ok := conn.topics[topic]; ok {
			targets = append(targets, conn)
		}
	}
	s.mu.Unlock()

	for _, conn := range targets {
		conn.writeMu.Lock()
		err = conn.ws.WriteJSON(fr)
		conn.writeMu.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// DropConnections force-closes every live websocket so tests can exercise
// client reconnect behaviour. The server keeps running.
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := make([]*wsConn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()
	for _, conn := range conns {
		_ = conn.ws.Close()
	}
}

// Sent returns the frames clients published toward app destinations.
func (s *Server) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

// SubscriberCount reports how many live connections hold the topic.
func (s *Server) SubscriberCount(topic string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for conn := range s.conns {
		if _, ok := conn.topics[topic]; ok {
			n++
		}
	}
	return n
}

// WaitSubscribed polls until at least one connection subscribes to topic.
func (s *Server) WaitSubscribed(topic string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.SubscriberCount(topic) > 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// WaitUnsubscribed polls until no connection holds the topic.
func (s *Server) WaitUnsubscribed(topic string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.SubscriberCount(topic) == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// WaitSent polls until a frame has been published to destination.
func (s *Server) WaitSent(destination string, timeout time.Duration) (SentMessage, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, msg := range s.Sent() {
			if msg.Destination == destination {
				return msg, true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return SentMessage{}, false
}
