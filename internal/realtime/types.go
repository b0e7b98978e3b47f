package realtime

import (
	"time"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/insights"
)

// MessageType tags pushed messages.
type MessageType string

const (
	// MessageState carries the full state after a change.
	MessageState MessageType = "state"
)

// Message is one push to websocket clients.
// ⭐ SSOT: live update payload shape
type Message struct {
	Type      MessageType       `json:"type"`
	Version   uint64            `json:"version"`
	State     contracts.State   `json:"state"`
	Insights  insights.Insights `json:"insights"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewStateMessage builds the message for a state snapshot.
func NewStateMessage(state contracts.State, version uint64) Message {
	return Message{
		Type:      MessageState,
		Version:   version,
		State:     state,
		Insights:  insights.Compute(state.Dataset, state.Units),
		Timestamp: time.Now().UTC(),
	}
}
