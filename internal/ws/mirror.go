package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-rgbcycle/internal/led"
	"github.com/coreman2200/funtimes-rgbcycle/model"
)

// Frame is what clients on /ws receive for every write attempt. Err is only
// set when the driver rejected the write.
type Frame struct {
	T    int64  `json:"t"`
	Step int    `json:"step"`
	Pin  int    `json:"pin"`
	RGB  string `json:"rgb"`
	Err  string `json:"err,omitempty"`
}

// clientQueue bounds how many frames wait for a slow client before new ones
// are dropped.
const clientQueue = 8

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Mirror forwards to a real driver and serves the writes to websocket
// clients. Frames are published from the sequencer hooks so they carry the
// step index; Publish never blocks on a client.
type Mirror struct {
	mu      sync.RWMutex
	next    led.Driver
	name    string
	pin     led.Pin
	writes  uint64
	last    model.Color
	start   time.Time
	clients map[*client]bool
}

func NewMirror(next led.Driver, name string) *Mirror {
	return &Mirror{
		next:    next,
		name:    name,
		pin:     -1,
		start:   time.Now(),
		clients: map[*client]bool{},
	}
}

func (m *Mirror) Configure(pin led.Pin) error {
	if err := m.next.Configure(pin); err != nil {
		return err
	}
	m.mu.Lock()
	m.pin = pin
	m.mu.Unlock()
	return nil
}

func (m *Mirror) Write(pin led.Pin, c model.Color) error {
	err := m.next.Write(pin, c)

	m.mu.Lock()
	m.writes++
	if err == nil {
		m.last = c
	}
	m.mu.Unlock()
	return err
}

func (m *Mirror) Close() error {
	m.mu.Lock()
	for cl := range m.clients {
		m.dropLocked(cl)
	}
	m.mu.Unlock()
	return m.next.Close()
}

// Publish queues a frame for every connected client. err is the write error
// for step, if any.
func (m *Mirror) Publish(step int, c model.Color, err error) {
	m.mu.RLock()
	f := Frame{T: time.Now().UnixNano(), Step: step, Pin: int(m.pin), RGB: c.String()}
	m.mu.RUnlock()
	if err != nil {
		f.Err = err.Error()
	}
	m.broadcast(f)
}

// Handler serves /ws and /health.
func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleFramesWS)
	mux.HandleFunc("/health", m.HandleHealth)
	return mux
}

func (m *Mirror) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, clientQueue)}
	m.mu.Lock()
	m.clients[cl] = true
	m.mu.Unlock()
	log.Debug().Str("remote", r.RemoteAddr).Msg("preview client connected")

	go func() {
		defer conn.Close()
		for b := range cl.send {
			conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("write frame")
				return
			}
		}
	}()
	go func() {
		defer m.drop(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *Mirror) HandleHealth(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := map[string]any{
		"driver":   m.name,
		"pin":      int(m.pin),
		"writes":   m.writes,
		"last":     m.last.String(),
		"uptime_s": time.Since(m.start).Seconds(),
		"clients":  len(m.clients),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients is the number of connected preview clients.
func (m *Mirror) Clients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Mirror) drop(cl *client) {
	m.mu.Lock()
	m.dropLocked(cl)
	m.mu.Unlock()
}

// dropLocked removes cl and stops its writer, which closes the conn.
func (m *Mirror) dropLocked(cl *client) {
	if !m.clients[cl] {
		return
	}
	delete(m.clients, cl)
	close(cl.send)
}

func (m *Mirror) broadcast(f Frame) {
	b, _ := json.Marshal(f)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for cl := range m.clients {
		select {
		case cl.send <- b:
		default:
			log.Debug().Int("step", f.Step).Msg("preview client behind; frame dropped")
		}
	}
}
