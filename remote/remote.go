// Package remote exposes the control protocol to networked clients over
// websockets. Each connection gets an opaque client id; inbound messages are
// turned into typed events on a single channel, and replies go back to
// exactly the client that asked.
package remote

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hullworks/machineroom/helm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type reply struct {
	Action string `json:"action"`
	Data   bool   `json:"data"`
}

type targetCommand struct {
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Server accepts remote control clients and forwards their messages as
// events. Reply may be called from the goroutine consuming Events.
type Server struct {
	events chan Event

	mu     sync.Mutex
	conns  map[string]chan []byte
	nextID int
}

func NewServer() *Server {
	return &Server{
		events: make(chan Event, 8),
		conns:  make(map[string]chan []byte),
	}
}

// Events returns the stream of client events.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Listen serves the websocket endpoint in the background.
func (s *Server) Listen(addr string) {
	http.HandleFunc("/ws", s.ws)
	go func() {
		err := http.ListenAndServe(addr, nil)
		log.Fatalf("remote control server exited: %v", err)
	}()
	log.Printf("remote control clients accepted on ws://%s/ws", addr)
}

// Reply sends an {action, data} response to one client. Replies to clients
// that are gone are dropped silently.
func (s *Server) Reply(client, action string, ok bool) {
	msg, err := json.Marshal(reply{Action: action, Data: ok})
	if err != nil {
		log.Printf("could not marshal reply for %s: %v", client, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	send, found := s.conns[client]
	if !found {
		return
	}
	select {
	case send <- msg:
	default:
		log.Printf("reply queue for %s full, dropping %s", client, action)
	}
}

func (s *Server) ws(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	send := make(chan []byte, 8)
	s.mu.Lock()
	s.nextID++
	client := fmt.Sprintf("client-%d", s.nextID)
	s.conns[client] = send
	s.mu.Unlock()
	log.Printf("%s connected from %s", client, r.RemoteAddr)

	go writer(c, send)

	defer func() {
		s.mu.Lock()
		delete(s.conns, client)
		close(send)
		s.mu.Unlock()
		c.Close()
		log.Printf("%s disconnected", client)
		s.events <- Event{Kind: ClientDisconnect, Client: client}
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			return
		}
		ev, err := decode(client, message)
		if err != nil {
			log.Printf("bad message from %s: %v", client, err)
			continue
		}
		s.events <- ev
	}
}

func decode(client string, message []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return Event{}, err
	}

	switch env.Action {
	case "control_request":
		return Event{Kind: ControlRequest, Client: client}, nil
	case "control_release":
		return Event{Kind: ControlRelease, Client: client}, nil
	case "control_data":
		var update helm.ControlUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil {
			return Event{}, err
		}
		return Event{Kind: ControlData, Client: client, Update: update}, nil
	case "setpoint":
		var cmd targetCommand
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return Event{}, err
		}
		return Event{Kind: TargetCommand, Client: client, Target: cmd.Target, Value: cmd.Value}, nil
	default:
		return Event{}, fmt.Errorf("unknown action %q", env.Action)
	}
}

func writer(c *websocket.Conn, send <-chan []byte) {
	for msg := range send {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write failed: %v", err)
		}
	}
}
