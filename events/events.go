package events

import "encoding/json"

// Actions emitted by the branch lifecycle. Out-of-scope collaborators
// (webhook dispatch, search indexing) consume these from the queue.
const (
	ActionBranchesCreated = "branches-created"
	ActionBranchesUpdated = "branches-updated"
	ActionBranchesDeleted = "branches-deleted"
)

// Event defines a type that can yield itself as JSON bytes.
type Event interface {
	Yield() []byte
	EventAction() string
}

// MCFEvent is the envelope published for every branch lifecycle change.
type MCFEvent struct {
	Action    string      `json:"action"`
	Project   string      `json:"project_id"`
	Timestamp string      `json:"timestamp"`
	Username  string      `json:"user"`
	SessionID string      `json:"session_id"`
	Payload   interface{} `json:"payload"`
}

// Yield satisfies the Event interface.
func (e MCFEvent) Yield() []byte {
	b, _ := json.Marshal(e)
	return b
}

// EventAction satisfies the Event interface.
func (e MCFEvent) EventAction() string {
	return e.Action
}
