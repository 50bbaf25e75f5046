package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"daftar/internal/core"
)

// ActivityMessage carries one audit trail entry from the API to the worker.
type ActivityMessage struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user,omitempty"`
	Action     string    `json:"action"`
	ModelName  string    `json:"model_name"`
	ObjectID   int64     `json:"object_id"`
	ObjectRepr string    `json:"object_repr"`
	Details    string    `json:"details,omitempty"`
}

func NewActivityMessage(a core.Activity) *ActivityMessage {
	return &ActivityMessage{
		ID:         a.ID,
		Timestamp:  a.Timestamp,
		User:       a.User,
		Action:     string(a.Action),
		ModelName:  a.ModelName,
		ObjectID:   a.ObjectID,
		ObjectRepr: a.ObjectRepr,
		Details:    a.Details,
	}
}

// Activity converts the message back into a domain entry.
func (m *ActivityMessage) Activity() core.Activity {
	return core.Activity{
		ID:         m.ID,
		Timestamp:  m.Timestamp,
		User:       m.User,
		Action:     core.Action(m.Action),
		ModelName:  m.ModelName,
		ObjectID:   m.ObjectID,
		ObjectRepr: m.ObjectRepr,
		Details:    m.Details,
	}
}

func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityMessageFromJSON decodes and checks a message body.
func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("activity message without id")
	}
	switch core.Action(msg.Action) {
	case core.ActionCreate, core.ActionUpdate, core.ActionDelete:
	default:
		return nil, fmt.Errorf("activity message %s: unknown action %q", msg.ID, msg.Action)
	}
	return &msg, nil
}
