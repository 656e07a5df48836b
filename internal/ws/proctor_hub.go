package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// ViolationEvent is pushed to asesor/admin dashboards while an ujian runs.
type ViolationEvent struct {
	KegiatanID string    `json:"kegiatan_id"`
	IzinID     string    `json:"izin_id"`
	AsesiID    string    `json:"asesi_id"`
	AsesiName  string    `json:"asesi_name"`
	Jenis      string    `json:"jenis"`
	Count      int       `json:"count"`
	Remaining  int       `json:"remaining"`
	Terminated bool      `json:"terminated"`
	At         time.Time `json:"at"`
}

type proctorMessage struct {
	kegiatanID string
	payload    []byte
}

// ProctorHub fans violation events out to websocket clients watching an
// assessment session. Asesor only receive events for kegiatan they are
// assigned to; admin receive everything.
type ProctorHub struct {
	register   chan *proctorClient
	unregister chan *proctorClient
	broadcast  chan proctorMessage
	clients    map[*proctorClient]struct{}
}

func NewProctorHub() *ProctorHub {
	return &ProctorHub{
		register:   make(chan *proctorClient),
		unregister: make(chan *proctorClient),
		broadcast:  make(chan proctorMessage, 256),
		clients:    make(map[*proctorClient]struct{}),
	}
}

func (h *ProctorHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.allowAll {
					if _, ok := client.allowedKegiatan[msg.kegiatanID]; !ok {
						continue
					}
				}
				select {
				case client.send <- msg.payload:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes the event to all clients scoped to its kegiatan.
func (h *ProctorHub) Broadcast(event ViolationEvent) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}
	h.broadcast <- proctorMessage{
		kegiatanID: event.KegiatanID,
		payload:    data,
	}
}

type proctorClient struct {
	hub             *ProctorHub
	conn            *websocket.Conn
	send            chan []byte
	allowedKegiatan map[string]struct{}
	allowAll        bool
}

func newProctorClient(hub *ProctorHub, conn *websocket.Conn, allowed map[string]struct{}, allowAll bool) *proctorClient {
	return &proctorClient{
		hub:             hub,
		conn:            conn,
		send:            make(chan []byte, sendBufferSize),
		allowedKegiatan: allowed,
		allowAll:        allowAll,
	}
}

func (c *proctorClient) readPump() {
	defer func() {
		c.hub.unregister <- c
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

func (c *proctorClient) writePump() {
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
