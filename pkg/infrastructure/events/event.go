package events

import "time"

// Event is an immutable entry of the run journal
type Event interface {
	Type() string
	RunID() string
	Payload() any
	OccurredAt() time.Time
	// Sequence numbers the events of one run from 1
	Sequence() int
	// Position is the 0-based offset in the journal across all runs
	Position() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// HandlerFunc adapts a function to an EventHandler that accepts every type
type HandlerFunc func(Event) error

func (f HandlerFunc) Handle(event Event) error { return f(event) }
func (f HandlerFunc) CanHandle(string) bool    { return true }

// EventStore is an append-only journal of planning runs
type EventStore interface {
	AppendEvent(runID string, event Event) error
	ReadEvents(runID string, fromSequence int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	// Subscribe registers handler for eventTypes; no types means every type
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
	Runs() []string
}

// Record is the stored form of an Event
type Record struct {
	EventType string    `json:"type"`
	Run       string    `json:"runId"`
	Data      any       `json:"payload,omitempty"`
	Time      time.Time `json:"occurredAt"`
	Seq       int       `json:"sequence"`
	Pos       int       `json:"position"`
}

func (r Record) Type() string          { return r.EventType }
func (r Record) RunID() string         { return r.Run }
func (r Record) Payload() any          { return r.Data }
func (r Record) OccurredAt() time.Time { return r.Time }
func (r Record) Sequence() int         { return r.Seq }
func (r Record) Position() int         { return r.Pos }

// NewEvent creates an unsequenced event; the store assigns Sequence and
// Position on append
func NewEvent(eventType, runID string, payload any) Event {
	return Record{
		EventType: eventType,
		Run:       runID,
		Data:      payload,
		Time:      time.Now(),
	}
}
