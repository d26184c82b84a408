package room

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"beatme-server/pkg/playable"
	"beatme-server/pkg/table"
)

// ErrNotSeated is returned when a client without a seat tries to play
var ErrNotSeated = table.UserError("you are not seated")

// ErrAlreadySeated is returned when a client signs in twice
var ErrAlreadySeated = table.UserError("you are already seated")

// ErrUnknownAction is returned for a message the room does not understand
var ErrUnknownAction = table.UserError("unknown action")

// TokenSigner issues the token a seat handle is presented with
type TokenSigner interface {
	Sign(h table.SeatHandle) (string, error)
}

// SeatToken is what a client receives after signing in
type SeatToken struct {
	Seat  int    `json:"seat"`
	Token string `json:"token"`
}

// Room fans table changes out to the connected clients
type Room struct {
	table   *table.Table
	signer  TokenSigner
	logger  logrus.FieldLogger
	clients map[*Client]bool
	lock    sync.RWMutex

	execInRunLoop chan func()
	close         chan bool

	// stateChanged holds at most one pending refresh, snapshots are taken when it is handled
	stateChanged chan struct{}

	// clientCount is the count last sent to the clients
	// NOTE: only accessed from the run loop
	clientCount int
}

// NewRoom creates a new room for the table
// The room registers itself for the table's change notifications.
func NewRoom(tbl *table.Table, signer TokenSigner, logger logrus.FieldLogger) *Room {
	r := &Room{
		table:         tbl,
		signer:        signer,
		logger:        logger,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan struct{}, 1),
		clientCount:   -1,
		close:         make(chan bool),
	}

	tbl.OnChange(func() {
		r.notify()
	})

	return r
}

// Table returns the table
func (r *Room) Table() *table.Table {
	return r.table
}

// Clients will return a slice of connected (at the time) clients
func (r *Room) Clients() []*Client {
	r.lock.RLock()
	defer r.lock.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (r *Room) StartShift() {
	go r.runLoop()
}

// EndShift stops the run loop
func (r *Room) EndShift() {
	close(r.close)
}

func (r *Room) runLoop() {
	r.logger.Debug("creating room run loop")
	for {
		select {
		case <-r.stateChanged:
			r.sendClientCount()
			r.sendSnapshots()
		case fn := <-r.execInRunLoop:
			fn()
		case <-r.close:
			r.logger.Debug("terminating room run loop")
			return
		}
	}
}

// notify requests a broadcast without blocking
// If a refresh is already pending it will pick up this change as well.
func (r *Room) notify() {
	select {
	case r.stateChanged <- struct{}{}:
	default:
	}
}

// AddClient adds a client
// This method must return quickly
func (r *Room) AddClient(client *Client) {
	r.lock.Lock()
	client.room = r
	r.clients[client] = true
	r.lock.Unlock()

	r.execInRunLoop <- func() {
		for _, c := range r.Clients() {
			if c != client {
				c.Send(&playable.Response{Key: "clientConnected", Value: client.Name()})
			}
		}

		r.notify()
	}
}

// RemoveClient removes a client and signs it out of its seat
// This method must return quickly
func (r *Room) RemoveClient(client *Client) {
	r.lock.Lock()
	delete(r.clients, client)
	r.lock.Unlock()

	r.execInRunLoop <- func() {
		r.logger.WithError(client.CloseError).WithField("client", client.String()).Debug("client disconnected")

		if h := client.handle; h != nil {
			client.handle = nil
			if _, err := r.table.SignOut(*h); err != nil {
				r.logger.WithError(err).WithField("client", client.String()).Error("could not sign out")
			}
		}

		for _, c := range r.Clients() {
			c.Send(&playable.Response{Key: "clientDisconnected", Value: client.Name()})
		}

		// the sign out above must be visible in the broadcast
		r.notify()
	}
}

// SignIn seats a new occupant and returns its signed token
func (r *Room) SignIn(preferredSeat ...int) (table.SeatHandle, *SeatToken, error) {
	h, err := r.table.SignIn(preferredSeat...)
	if err != nil {
		return table.SeatHandle{}, nil, err
	}

	token, err := r.signer.Sign(h)
	if err != nil {
		if _, soErr := r.table.SignOut(h); soErr != nil {
			r.logger.WithError(soErr).Error("could not sign out after failing to sign the token")
		}

		return table.SeatHandle{}, nil, err
	}

	r.notify()
	return h, &SeatToken{Seat: h.Index, Token: token}, nil
}

// SignOut removes the occupant and returns the remaining stack
func (r *Room) SignOut(h table.SeatHandle) (int, error) {
	stack, err := r.table.SignOut(h)
	if err != nil {
		return 0, err
	}

	r.notify()
	return stack, nil
}

// Act performs an action for the seat
func (r *Room) Act(h table.SeatHandle, a table.Action, amount int) error {
	if err := r.table.Act(h, a, amount); err != nil {
		return err
	}

	r.notify()
	return nil
}

// BeginNextHand starts the next hand right away
func (r *Room) BeginNextHand() error {
	if err := r.table.BeginNextHand(); err != nil {
		return err
	}

	r.notify()
	return nil
}

// ReceivedMessage is called when a client sends a message to the server
func (r *Room) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	r.execInRunLoop <- func() {
		res, err := r.handleMessage(c, msg)
		if err != nil {
			r.logger.WithError(err).WithField("client", c.String()).Debug("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		res.Context = msg.Context
		c.Send(res)
	}
}

// NOTE: must only be called from the run loop
func (r *Room) handleMessage(c *Client, msg *playable.PayloadIn) (*playable.Response, error) {
	switch msg.Action {
	case "signIn":
		if c.handle != nil && r.table.IsSeated(*c.handle) {
			return nil, ErrAlreadySeated
		}

		var preferred []int
		if seat, ok := msg.AdditionalData.GetInt("seat"); ok {
			preferred = append(preferred, seat)
		}

		h, token, err := r.SignIn(preferred...)
		if err != nil {
			return nil, err
		}

		c.handle = &h
		return &playable.Response{Key: "token", Data: token}, nil
	case "signOut":
		if c.handle == nil {
			return nil, ErrNotSeated
		}

		stack, err := r.SignOut(*c.handle)
		if err != nil {
			return nil, err
		}

		c.handle = nil
		res := playable.OK()
		res.Data = map[string]int{"stack": stack}
		return res, nil
	case "beginNextHand":
		if c.handle == nil {
			return nil, ErrNotSeated
		}

		if err := r.BeginNextHand(); err != nil {
			return nil, err
		}

		return playable.OK(), nil
	}

	a, err := table.ActionFromString(msg.Action)
	if err != nil {
		return nil, ErrUnknownAction
	}

	if c.handle == nil {
		return nil, ErrNotSeated
	}

	amount, _ := msg.AdditionalData.GetInt("amount")
	if err := r.Act(*c.handle, a, amount); err != nil {
		return nil, err
	}

	return playable.OK(), nil
}

// NOTE: must only be called from the run loop
func (r *Room) sendClientCount() {
	clients := r.Clients()
	if len(clients) == r.clientCount {
		return
	}

	r.clientCount = len(clients)
	for _, c := range clients {
		c.Send(&playable.Response{
			Key:  "clients",
			Data: len(clients),
		})
	}
}

// NOTE: must only be called from the run loop
func (r *Room) sendSnapshots() {
	log := r.table.Log()
	for _, c := range r.Clients() {
		var perspective []int
		if c.handle != nil {
			if r.table.IsSeated(*c.handle) {
				perspective = append(perspective, c.handle.Index)
			} else {
				c.handle = nil
			}
		}

		if !c.Send(&playable.Response{
			Key: "snapshot",
			Data: &clientState{
				Table: r.table.Snapshot(perspective...),
				Log:   log,
			},
		}) {
			r.logger.WithField("client", c.String()).Warn("client is not keeping up")
			c.Disconnect("client is not keeping up")
		}
	}
}

func isUserError(err error) bool {
	var userErr table.UserError
	return errors.As(err, &userErr)
}
