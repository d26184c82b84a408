package mux

import (
	"net/http"

	"beatme-server/pkg/playable"
	"beatme-server/pkg/table"
)

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var perspective []int
		if h, ok := m.seatHandle(r); ok {
			perspective = append(perspective, h.Index)
		}

		writeJSON(w, http.StatusOK, m.room.Table().Snapshot(perspective...))
	}
}

type postTableSeatPayload struct {
	Seat *int `json:"seat"`
}

func (m *Mux) postTableSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postTableSeatPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		var preferred []int
		if payload.Seat != nil {
			preferred = append(preferred, *payload.Seat)
		}

		_, token, err := m.room.SignIn(preferred...)
		if err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, token)
	}
}

type deleteTableSeatResponse struct {
	Stack int `json:"stack"`
}

func (m *Mux) deleteTableSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Context().Value(ctxSeatKey).(table.SeatHandle)
		stack, err := m.room.SignOut(h)
		if err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, deleteTableSeatResponse{Stack: stack})
	}
}

func (m *Mux) getTableActions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Context().Value(ctxSeatKey).(table.SeatHandle)

		tbl := m.room.Table()
		if _, err := tbl.LegalActions(); err != nil {
			writeTableError(w, err)
			return
		}

		snap := tbl.Snapshot(h.Index)
		if snap.LegalActions == nil {
			writeTableError(w, table.ErrNotYourTurn)
			return
		}

		writeJSON(w, http.StatusOK, snap.LegalActions)
	}
}

type postTableActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (m *Mux) postTableAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postTableActionPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		a, err := table.ActionFromString(payload.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		h := r.Context().Value(ctxSeatKey).(table.SeatHandle)
		if err := m.room.Act(h, a, payload.Amount); err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, playable.OK())
	}
}
