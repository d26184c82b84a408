package room

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"beatme-server/internal/rng"
	"beatme-server/internal/util"
	"beatme-server/pkg/playable"
	"beatme-server/pkg/table"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close receives the reason when the server wants the connection closed
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	id   string
	name string
	room *Room

	// handle is the seat the client plays, nil if the client is only watching
	// NOTE: only accessed from the room's run loop after the client is added
	handle *table.SeatHandle
}

// NewClient returns a new client object
// handle is nil for a client that connected without a seat token
func NewClient(conn *websocket.Conn, handle *table.SeatHandle) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string, 1),
		Conn:   conn,
		id:     uuid.New().String(),
		name:   util.GetRandomName(rng.Crypto{}),
		handle: handle,
	}
}

// Send send a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Disconnect asks the connection to close
// It does not block, only the first reason is kept.
func (c *Client) Disconnect(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Name is the display name shown to the other clients
func (c *Client) Name() string {
	return c.name
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.name, c.id)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.room == nil {
		logrus.WithField("msg", msg).Warn("received message, but room not found")
		return
	}

	c.room.ReceivedMessage(c, msg)
}
