package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/touch"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// wsClient wraps a connection with a write lock, since gorilla/websocket
// permits only one concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans recognized events out to WebSocket clients and SSE
// subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
	subs    map[chan []byte]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
		subs:    make(map[chan []byte]bool),
	}
}

// Publish broadcasts an event of the given kind to every connected
// client and subscriber. Slow SSE subscribers drop messages rather than
// block the publisher.
func (h *Hub) Publish(kind string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":      kind,
		"data":      payload,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", kind, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if err := c.send(msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) addClient(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) removeClient(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Subscribe registers a channel that receives every published message.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.subs[ch] = true
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel registered with Subscribe.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// inboundFrame is one input event pushed by a WebSocket client. Touch
// frames carry contacts; stroke frames carry a single position.
type inboundFrame struct {
	Type     string          `json:"type"`
	TS       int64           `json:"ts"`
	Contacts []touch.Contact `json:"contacts"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
}

// EventsHandler is the bidirectional WebSocket endpoint: clients push
// raw touch and stroke frames in, and receive recognized events back
// through the hub.
type EventsHandler struct {
	hub    *Hub
	engine *gesture.Recognizer
	shapes *shape.Recognizer
}

// NewEventsHandler creates an EventsHandler feeding the given recognizers.
func NewEventsHandler(hub *Hub, engine *gesture.Recognizer, shapes *shape.Recognizer) *EventsHandler {
	return &EventsHandler{hub: hub, engine: engine, shapes: shapes}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}
	h.hub.addClient(client)
	defer h.hub.removeClient(client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("dropping malformed frame: %v", err)
			continue
		}
		h.dispatch(frame)
	}
}

// dispatch routes one inbound frame to the matching recognizer. A zero
// timestamp means the frame carries no clock and gets stamped on arrival.
func (h *EventsHandler) dispatch(frame inboundFrame) {
	ts := frame.TS
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	switch frame.Type {
	case "touch-start":
		if h.engine != nil {
			h.engine.TouchStart(frame.Contacts, ts)
		}
	case "touch-move":
		if h.engine != nil {
			h.engine.TouchMove(frame.Contacts, ts)
		}
	case "touch-end":
		if h.engine != nil {
			h.engine.TouchEnd(frame.Contacts, ts)
		}
	case "touch-cancel":
		if h.engine != nil {
			h.engine.TouchCancel(ts)
		}
	case "stroke-start":
		if h.shapes != nil {
			h.shapes.Start(frame.X, frame.Y, ts)
		}
	case "stroke-point":
		if h.shapes != nil {
			h.shapes.AddPoint(frame.X, frame.Y, ts)
		}
	case "stroke-end":
		if h.shapes != nil {
			h.shapes.Stop()
		}
	default:
		log.Printf("dropping frame with unknown type %q", frame.Type)
	}
}
