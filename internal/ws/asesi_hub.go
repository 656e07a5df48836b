package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// AsesiMessage is pushed to a single candidate's exam screen.
type AsesiMessage struct {
	Type      string `json:"type"` // peringatan | paksa_kumpul
	Jenis     string `json:"jenis,omitempty"`
	Count     int    `json:"count,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Message   string `json:"message,omitempty"`
}

type asesiNotification struct {
	asesiID string
	payload []byte
}

type AsesiHub struct {
	register   chan *asesiClient
	unregister chan *asesiClient
	notify     chan asesiNotification
	clients    map[string]*asesiClient
}

func NewAsesiHub() *AsesiHub {
	return &AsesiHub{
		register:   make(chan *asesiClient),
		unregister: make(chan *asesiClient),
		notify:     make(chan asesiNotification, 256),
		clients:    make(map[string]*asesiClient),
	}
}

func (h *AsesiHub) Run() {
	for {
		select {
		case client := <-h.register:
			if existing, ok := h.clients[client.userID]; ok {
				existing.conn.Close()
			}
			h.clients[client.userID] = client
		case client := <-h.unregister:
			if stored, ok := h.clients[client.userID]; ok && stored == client {
				delete(h.clients, client.userID)
			}
		case msg := <-h.notify:
			if client, ok := h.clients[msg.asesiID]; ok {
				select {
				case client.send <- msg.payload:
				default:
					client.conn.Close()
					delete(h.clients, msg.asesiID)
				}
			}
		}
	}
}

func (h *AsesiHub) Notify(asesiID string, message AsesiMessage) {
	if h == nil {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	h.notify <- asesiNotification{
		asesiID: asesiID,
		payload: data,
	}
}

type asesiClient struct {
	hub    *AsesiHub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func newAsesiClient(hub *AsesiHub, conn *websocket.Conn, userID string) *asesiClient {
	return &asesiClient{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}
}

func (c *asesiClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *asesiClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
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
