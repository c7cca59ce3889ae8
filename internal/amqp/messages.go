package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// Encode marshals a change for the wire.
func Encode(c ledger.Change) ([]byte, error) {
	return json.Marshal(c)
}

// Decode unmarshals a change and rejects messages that could not be routed to a user.
func Decode(data []byte) (ledger.Change, error) {
	var c ledger.Change
	if err := json.Unmarshal(data, &c); err != nil {
		return ledger.Change{}, fmt.Errorf("unmarshal change: %w", err)
	}

	if c.UserID == uuid.Nil {
		return ledger.Change{}, errors.New("change has no user_id")
	}

	switch c.Action {
	case ledger.ActionInsert, ledger.ActionUpdate, ledger.ActionDelete:
	default:
		return ledger.Change{}, fmt.Errorf("unknown action %q", c.Action)
	}

	return c, nil
}
