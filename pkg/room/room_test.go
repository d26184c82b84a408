package room

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"beatme-server/internal/rng"
	"beatme-server/pkg/playable"
	"beatme-server/pkg/table"
)

type testSigner struct {
	err error
}

func (s testSigner) Sign(h table.SeatHandle) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	return fmt.Sprintf("signed-%d", h.Index), nil
}

func newTestRoom(t *testing.T, signer TokenSigner) (*Room, *quartz.Mock) {
	t.Helper()

	opts := table.DefaultOptions()
	opts.Seats = 3
	opts.NextHandDelay = time.Second

	clock := quartz.NewMock(t)
	tbl := table.New(opts, logrus.StandardLogger(), rng.NewSeeded(1), clock)
	r := NewRoom(tbl, signer, logrus.StandardLogger())
	r.StartShift()

	t.Cleanup(func() {
		r.EndShift()
		tbl.Close()
	})

	return r, clock
}

func waitFor(t *testing.T, c *Client, key string, match ...func(*playable.Response) bool) *playable.Response {
	t.Helper()

	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			res, ok := msg.(*playable.Response)
			if !ok || res.Key != key {
				continue
			}

			if len(match) > 0 && !match[0](res) {
				continue
			}

			return res
		case <-timeout:
			t.Fatalf("timed out waiting for %s", key)
			return nil
		}
	}
}

func waitForSnapshot(t *testing.T, c *Client, match func(*table.Snapshot) bool) *table.Snapshot {
	t.Helper()

	res := waitFor(t, c, "snapshot", func(res *playable.Response) bool {
		return match(res.Data.(*clientState).Table)
	})

	return res.Data.(*clientState).Table
}

func send(c *Client, action, ctx string, data ...playable.AdditionalData) {
	msg := &playable.PayloadIn{
		Action:  action,
		Context: ctx,
	}

	if len(data) > 0 {
		msg.AdditionalData = data[0]
	}

	c.ReceivedMessage(msg)
}

func signIn(t *testing.T, c *Client, ctx string) *SeatToken {
	t.Helper()

	send(c, "signIn", ctx)
	res := waitFor(t, c, "token", func(res *playable.Response) bool {
		return res.Context == ctx
	})

	return res.Data.(*SeatToken)
}

func TestRoom_signInAndAct(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{})

	c1 := NewClient(nil, nil)
	c2 := NewClient(nil, nil)
	observer := NewClient(nil, nil)
	r.AddClient(c1)
	r.AddClient(c2)
	r.AddClient(observer)

	a.Len(r.Clients(), 3)

	token := signIn(t, c1, "first")
	a.Equal(&SeatToken{Seat: 0, Token: "signed-0"}, token)

	send(c2, "signIn", "second", playable.AdditionalData{"seat": float64(2)})
	res := waitFor(t, c2, "token")
	a.Equal("second", res.Context)
	a.Equal(&SeatToken{Seat: 2, Token: "signed-2"}, res.Data)

	// seat 2 posts the small blind and acts first
	snap := waitForSnapshot(t, c2, func(s *table.Snapshot) bool {
		return s.Phase == table.PhaseOn
	})
	a.Equal(2, *snap.Perspective)
	a.Equal(2, *snap.Turn)
	a.Len(snap.Seats[2].Cards, 2)
	a.Nil(snap.Seats[0].Cards)
	a.Contains(snap.LegalActions, table.Call)

	send(c2, "call", "calling")
	res = waitFor(t, c2, "status")
	a.Equal(playable.OK("calling"), res)

	snap = waitForSnapshot(t, c1, func(s *table.Snapshot) bool {
		return s.Turn != nil && *s.Turn == 0
	})
	a.Equal(0, *snap.Perspective)
	a.Len(snap.Seats[0].Cards, 2)
	a.Nil(snap.Seats[2].Cards)
	a.Equal(40, snap.Pot)

	snap = waitForSnapshot(t, observer, func(s *table.Snapshot) bool {
		return s.Turn != nil && *s.Turn == 0
	})
	a.Nil(snap.Perspective)
	a.Nil(snap.Seats[0].Stack)
	a.Nil(snap.LegalActions)
}

func TestRoom_errors(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{})

	c := NewClient(nil, nil)
	r.AddClient(c)

	send(c, "fold", "a")
	a.Equal("you are not seated", waitFor(t, c, "error").Value)

	send(c, "dance", "b")
	a.Equal("unknown action", waitFor(t, c, "error").Value)

	send(c, "signOut", "c")
	a.Equal("you are not seated", waitFor(t, c, "error").Value)

	signIn(t, c, "d")

	send(c, "check", "e")
	res := waitFor(t, c, "error")
	a.Equal("e", res.Context)
	a.Equal("there is no hand in progress", res.Value)

	send(c, "signIn", "f")
	a.Equal("you are already seated", waitFor(t, c, "error").Value)

	send(c, "beginNextHand", "g")
	a.Equal("at least two players with chips are needed", waitFor(t, c, "error").Value)

	send(c, "signOut", "h")
	res = waitFor(t, c, "status")
	a.Equal("h", res.Context)
	a.Equal(map[string]int{"stack": 300}, res.Data)
}

func TestRoom_SignIn_signerFails(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{err: errors.New("no key")})

	_, token, err := r.SignIn()
	a.EqualError(err, "no key")
	a.Nil(token)
	a.Equal(0, r.Table().TotalChips(), "the seat is given back")
}

func TestRoom_RemoveClient(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{})

	c1 := NewClient(nil, nil)
	c2 := NewClient(nil, nil)
	r.AddClient(c1)
	r.AddClient(c2)

	waitFor(t, c1, "clientConnected", func(res *playable.Response) bool {
		return res.Value == c2.Name()
	})

	signIn(t, c1, "a")
	h, _, err := r.SignIn()
	a.NoError(err)

	r.RemoveClient(c1)
	waitFor(t, c2, "clientDisconnected")

	// the first snapshot after the notice already has the seat emptied
	res := waitFor(t, c2, "snapshot")
	snap := res.Data.(*clientState).Table
	a.Equal(table.SeatEmpty, snap.Seats[0].Status)
	a.Equal(table.PhaseOff, snap.Phase)
	a.True(r.Table().IsSeated(h))
	a.Len(r.Clients(), 1)
}

func TestRoom_notifyCoalesces(t *testing.T) {
	a := assert.New(t)

	opts := table.DefaultOptions()
	opts.Seats = 3
	tbl := table.New(opts, logrus.StandardLogger(), rng.NewSeeded(1), quartz.NewMock(t))
	r := NewRoom(tbl, testSigner{}, logrus.StandardLogger())

	// nothing drains the channel before the shift starts
	for i := 0; i < 1000; i++ {
		r.notify()
	}
	a.Len(r.stateChanged, 1)

	c := NewClient(nil, nil)
	r.AddClient(c)
	r.StartShift()
	t.Cleanup(func() {
		r.EndShift()
		tbl.Close()
	})

	a.Equal(1, waitFor(t, c, "clients").Data)
	snap := waitForSnapshot(t, c, func(s *table.Snapshot) bool { return true })
	a.Equal(table.PhaseOff, snap.Phase)
}

func TestRoom_slowClientIsDisconnected(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{})

	c := NewClient(nil, nil)
	for c.Send(playable.OK()) {
	}

	r.AddClient(c)

	select {
	case reason := <-c.Close:
		a.Equal("client is not keeping up", reason)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the client to be disconnected")
	}
}

func TestClient_Disconnect(t *testing.T) {
	a := assert.New(t)

	c := NewClient(nil, nil)
	c.Disconnect("first")
	c.Disconnect("second")

	a.Equal("first", <-c.Close)
	a.Len(c.Close, 0)
}

func TestRoom_seatTokenFromTransport(t *testing.T) {
	a := assert.New(t)
	r, _ := newTestRoom(t, testSigner{})

	h, _, err := r.SignIn()
	a.NoError(err)

	c := NewClient(nil, &h)
	r.AddClient(c)

	snap := waitForSnapshot(t, c, func(s *table.Snapshot) bool { return true })
	a.Equal(0, *snap.Perspective)

	// the seat was given up elsewhere, the client goes back to watching
	_, err = r.SignOut(h)
	a.NoError(err)

	snap = waitForSnapshot(t, c, func(s *table.Snapshot) bool {
		return s.Seats[0].Status == table.SeatEmpty
	})
	a.Nil(snap.Perspective)

	send(c, "fold", "a")
	a.Equal("you are not seated", waitFor(t, c, "error").Value)
}

func TestRoom_nextHandIsBroadcast(t *testing.T) {
	a := assert.New(t)
	r, clock := newTestRoom(t, testSigner{})

	c := NewClient(nil, nil)
	r.AddClient(c)

	h1, _, err := r.SignIn()
	a.NoError(err)
	h2, _, err := r.SignIn()
	a.NoError(err)

	// heads-up, the small blind folds to the big blind
	a.NoError(r.Act(h2, table.Fold, 0))
	waitForSnapshot(t, c, func(s *table.Snapshot) bool {
		return s.Phase == table.PhaseOff && s.Showdown != nil
	})
	a.True(r.Table().NextHandPending())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	clock.Advance(time.Second).MustWait(ctx)

	snap := waitForSnapshot(t, c, func(s *table.Snapshot) bool {
		return s.Phase == table.PhaseOn
	})
	a.Equal(1, *snap.Dealer)
	a.True(r.Table().IsSeated(h1))
}

func Test_newErrorResponse(t *testing.T) {
	a := assert.New(t)

	res := newErrorResponse("ctx", errors.New("database exploded"))
	a.Equal(&playable.Response{Key: "error", Value: "internal error", Context: "ctx"}, res)

	err := fmt.Errorf("%w: %w", table.ErrIllegalAction, table.UserError("your bet must be between ${20} and ${300}"))
	res = newErrorResponse("", err)
	a.Equal("illegal action: your bet must be between ${20} and ${300}", res.Value)

	res = newErrorResponse("", fmt.Errorf("%w: %w", table.ErrTableBroken, errors.New("deck has 51 cards")))
	a.Equal("internal error", res.Value)
}
