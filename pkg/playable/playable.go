package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"beatme-server/pkg/deck"
)

// NoSeat is used in place of a seat index when a message is not about a seat
const NoSeat = -1

// LogMessage is a line in the hand history
// If Seats is empty, assume it's a general statement, otherwise the message will be shown like "{seat} did X, Y, Z"
type LogMessage struct {
	UUID    string      `json:"uuid"`
	Seats   []int       `json:"seats"`
	Cards   []deck.Card `json:"cards"`
	Message string      `json:"message"`
	Time    time.Time   `json:"time"`
}

// Response is the envelope for every message sent to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// PayloadIn is the format we expect from the client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

// SimpleLogMessage returns a new LogMessage
// Use NoSeat for a general statement
func SimpleLogMessage(seat int, format string, a ...interface{}) *LogMessage {
	var seats []int
	if seat != NoSeat {
		seats = []int{seat}
	}

	return &LogMessage{
		UUID:    uuid.New().String(),
		Seats:   seats,
		Message: fmt.Sprintf(format, a...),
		Time:    time.Now(),
	}
}

// CardsLogMessage returns a new LogMessage that shows cards
func CardsLogMessage(seat int, cards []deck.Card, format string, a ...interface{}) *LogMessage {
	lm := SimpleLogMessage(seat, format, a...)
	lm.Cards = append([]deck.Card(nil), cards...)

	return lm
}
