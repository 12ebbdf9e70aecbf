package apiserver

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/core/types"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// EventMessage is pushed to the event subscribers for every receipt carrying events
type EventMessage struct {
	TxHash string         `json:"tx_hash"`
	Ledger uint32         `json:"ledger"`
	Events []*types.Event `json:"events"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *subscriber) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

type hub struct {
	sync.Mutex
	subs map[*subscriber]bool
	log  *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		subs: map[*subscriber]bool{},
		log:  log,
	}
}

// publish never blocks, a subscriber with a full buffer misses the message
func (h *hub) publish(msg *EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("event encode", zap.Error(err))
		return
	}
	h.Lock()
	defer h.Unlock()

	for c := range h.subs {
		select {
		case c.send <- data:
		default:
			h.log.Debug("event dropped", zap.String("remote", c.conn.RemoteAddr().String()))
		}
	}
}

func (h *hub) count() int {
	h.Lock()
	defer h.Unlock()
	return len(h.subs)
}

func (h *hub) closeAll() {
	h.Lock()
	defer h.Unlock()

	for c := range h.subs {
		c.close()
	}
}

// serve pumps the messages to the connection until it is closed by either side
func (h *hub) serve(conn *websocket.Conn) {
	c := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.Lock()
	h.subs[c] = true
	h.Unlock()

	defer func() {
		h.Lock()
		delete(h.subs, c)
		h.Unlock()
		conn.Close()
	}()

	go func() {
		defer c.close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data := <-c.send:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
