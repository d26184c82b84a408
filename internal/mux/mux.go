package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	gmux "github.com/gorilla/mux"

	"beatme-server/internal/jwt"
	"beatme-server/pkg/room"
	"beatme-server/pkg/table"
)

type ctxKey int

const (
	ctxSeatKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	room    *room.Room
	signer  *jwt.Signer

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
// The room's run loop must be started by the caller.
func NewMux(version string, rm *room.Room, signer *jwt.Signer) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		room:    rm,
		signer:  signer,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	// a seat token is optional, when valid the response is from the seat's perspective
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodPost).Path("/table/seat").Handler(this.postTableSeat())
		r.Methods(http.MethodGet).Path("/table/ws").Handler(this.getTableWS())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodDelete).Path("/table/seat").Handler(this.deleteTableSeat())
		r.Methods(http.MethodGet).Path("/table/actions").Handler(this.getTableActions())
		r.Methods(http.MethodPost).Path("/table/action").Handler(this.postTableAction())
	}

	return this
}

// seatHandle returns the seat the request is authorized for
// ok is false if there is no token, or the token is for a seat that was given up
func (m *Mux) seatHandle(r *http.Request) (h table.SeatHandle, ok bool) {
	token := r.FormValue("access_token")
	if token == "" {
		authHeader := strings.Split(r.Header.Get("Authorization"), " ")
		if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
			return table.SeatHandle{}, false
		}

		token = authHeader[1]
	}

	h, err := m.signer.ValidSeat(token)
	if err != nil {
		return table.SeatHandle{}, false
	}

	if !m.room.Table().IsSeated(h) {
		return table.SeatHandle{}, false
	}

	return h, true
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := m.seatHandle(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSeatKey, h)
		w.Header().Set("BeatMe-Seat", strconv.Itoa(h.Index))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
