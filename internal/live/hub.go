// Package live рассылает изменения мест вылета подключённым по WebSocket клиентам.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MessageType string

const MessageSeatsBooked MessageType = "seats_booked"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 16
	broadcastQueue = 256
)

// Message событие по вылету
type Message struct {
	Type       MessageType     `json:"type"`
	ScheduleID int64           `json:"schedule_id"`
	Class      model.SeatClass `json:"class"`
	Seats      []string        `json:"seats"`
	Timestamp  int64           `json:"timestamp"`
}

// Hub хранит подписчиков по вылетам
type Hub struct {
	clients    map[int64]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan *Message
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan *Message, broadcastQueue),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run главный цикл, работает до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.scheduleID] == nil {
				h.clients[c.scheduleID] = make(map[*client]struct{})
			}
			h.clients[c.scheduleID][c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Seat feed client registered", zap.Int64("schedule_id", c.scheduleID))

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("Failed to marshal seat feed message", zap.Error(err))
				continue
			}

			h.mu.Lock()
			for c := range h.clients[msg.ScheduleID] {
				select {
				case c.send <- data:
				default:
					// медленный клиент отключается
					h.remove(c)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for c := range clients {
					h.remove(c)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove вызывается под h.mu
func (h *Hub) remove(c *client) {
	clients, ok := h.clients[c.scheduleID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.scheduleID)
	}
}

// SeatsBooked ставит событие в очередь. При переполненной очереди событие теряется.
func (h *Hub) SeatsBooked(scheduleID int64, class model.SeatClass, seatCodes []string) {
	msg := &Message{
		Type:       MessageSeatsBooked,
		ScheduleID: scheduleID,
		Class:      class,
		Seats:      seatCodes,
		Timestamp:  time.Now().UnixMilli(),
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Seat feed queue is full, event dropped", zap.Int64("schedule_id", scheduleID))
	}
}

// ClientCount количество подписчиков вылета
func (h *Hub) ClientCount(scheduleID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[scheduleID])
}

// ServeWS переводит запрос в WebSocket и подписывает его на вылет
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, scheduleID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("Failed to upgrade seat feed connection", zap.Error(err))
		return
	}

	c := &client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		scheduleID: scheduleID,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
