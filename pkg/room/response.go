package room

import (
	"github.com/sirupsen/logrus"

	"beatme-server/pkg/playable"
	"beatme-server/pkg/table"
)

type clientState struct {
	Table *table.Snapshot        `json:"table"`
	Log   []*playable.LogMessage `json:"log"`
}

// newErrorResponse hides anything that is not a user error
func newErrorResponse(ctx string, err error) *playable.Response {
	msg := "internal error"
	if isUserError(err) {
		msg = err.Error()
	} else {
		logrus.WithError(err).Error("unexpected error")
	}

	return &playable.Response{
		Key:     "error",
		Value:   msg,
		Context: ctx,
	}
}
