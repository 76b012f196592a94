/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected socket, host or player.
type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
	room string
}

type inbound struct {
	client *Client
	msg    ClientMessage
}

// Hub owns every connection and the room membership map. All hub state
// is confined to the run goroutine; outside callers talk to it through
// channels, so events are handled one at a time, start to finish.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	closes     chan string

	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
}

func newHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		closes:     make(chan string),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) run(cfg *Config, ctrl *Controller) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.deliver(c, ConnectedMessage{
				Type:    "connected",
				Message: "You are connected!",
			})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logf(cfg, "GAMES: Connection %s closed", c.id)
			}
			h.leaveRoom(ctrl, c)

		case in := <-h.inbound:
			ctrl.dispatch(in.client, in.msg)

		case roomID := <-h.closes:
			for c := range h.rooms[roomID] {
				if _, ok := h.clients[c]; ok {
					delete(h.clients, c)
					close(c.send)
				}
				if c.conn != nil {
					_ = c.conn.Close()
				}
			}
			delete(h.rooms, roomID)
		}
	}
}

// CloseRoom disconnects every client in a room. Safe to call from other
// goroutines; used by the session reaper.
func (h *Hub) CloseRoom(roomID string) {
	h.closes <- roomID
}

func (h *Hub) joinRoom(c *Client, roomID string) {
	if c.room == roomID {
		return
	}

	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[roomID] = room
	}
	room[c] = true
	c.room = roomID
}

// leaveRoom detaches a client from its room and reports the room to the
// controller once its last member is gone.
func (h *Hub) leaveRoom(ctrl *Controller, c *Client) {
	if c.room == "" {
		return
	}

	roomID := c.room
	c.room = ""

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, roomID)
		ctrl.roomEmptied(roomID)
	}
}

// deliver queues a message for a single client, dropping the client if
// its outbox is full.
func (h *Hub) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

// broadcast fans a message out to every client in a room. Sends are
// fire-and-forget; slow clients are dropped rather than awaited.
func (h *Hub) broadcast(roomID string, msg any) {
	for c := range h.rooms[roomID] {
		select {
		case c.send <- msg:
		default:
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)

	if c.room != "" {
		if room, ok := h.rooms[c.room]; ok {
			delete(room, c)
		}
		c.room = ""
	}

	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func serveWS(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
			id:   uuid.NewString(),
		}

		logf(cfg, "GAMES: Connection %s opened from %s", client.id, realIP(r))

		h.register <- client

		go client.writePump()
		client.readPump(h)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		h.inbound <- inbound{client: c, msg: msg}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
