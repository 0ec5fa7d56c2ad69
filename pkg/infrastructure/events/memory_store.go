package events

import (
	"context"
	"errors"
	"sync"

	"github.com/vsinha/netplan/pkg/infrastructure/logging"
)

// InMemoryEventStore keeps the journal in one slice with a per-run index.
// Subscribers are notified synchronously, in subscription order, after the
// append is committed.
type InMemoryEventStore struct {
	mu            sync.RWMutex
	journal       []Record
	byRun         map[string][]int
	runs          []string
	subscriptions []subscription
	logger        logging.Logger
}

type subscription struct {
	types   map[string]bool // nil matches every type
	handler EventHandler
}

func (s subscription) matches(eventType string) bool {
	return s.types == nil || s.types[eventType]
}

var _ EventStore = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore(logger logging.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = logging.Noop()
	}
	return &InMemoryEventStore{
		byRun:  make(map[string][]int),
		logger: logger,
	}
}

func (s *InMemoryEventStore) AppendEvent(runID string, event Event) error {
	if runID == "" {
		return errors.New("run ID cannot be empty")
	}
	if event == nil {
		return errors.New("event cannot be nil")
	}

	s.mu.Lock()
	if _, seen := s.byRun[runID]; !seen {
		s.runs = append(s.runs, runID)
	}
	record := Record{
		EventType: event.Type(),
		Run:       runID,
		Data:      event.Payload(),
		Time:      event.OccurredAt(),
		Seq:       len(s.byRun[runID]) + 1,
		Pos:       len(s.journal),
	}
	s.journal = append(s.journal, record)
	s.byRun[runID] = append(s.byRun[runID], record.Pos)

	var handlers []EventHandler
	for _, sub := range s.subscriptions {
		if sub.matches(record.EventType) {
			handlers = append(handlers, sub.handler)
		}
	}
	s.mu.Unlock()

	s.notify(handlers, record)
	return nil
}

func (s *InMemoryEventStore) ReadEvents(runID string, fromSequence int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.byRun[runID]
	fromSequence = max(fromSequence, 1)
	if fromSequence > len(positions) {
		return []Event{}, nil
	}
	out := make([]Event, 0, len(positions)-fromSequence+1)
	for _, pos := range positions[fromSequence-1:] {
		out = append(out, s.journal[pos])
	}
	return out, nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromPosition = max(fromPosition, 0)
	if fromPosition >= len(s.journal) {
		return []Event{}, nil
	}
	out := make([]Event, 0, len(s.journal)-fromPosition)
	for _, r := range s.journal[fromPosition:] {
		out = append(out, r)
	}
	return out, nil
}

// Runs lists run IDs in the order their first event was appended
func (s *InMemoryEventStore) Runs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.runs...)
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, sub)
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.subscriptions[:0]
	for _, sub := range s.subscriptions {
		if !sameHandler(sub.handler, handler) {
			kept = append(kept, sub)
		}
	}
	s.subscriptions = kept
	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, h := range handlers {
		if !h.CanHandle(event.Type()) {
			continue
		}
		if err := h.Handle(event); err != nil {
			s.logger.Warn(context.Background(), "event handler failed",
				logging.String("event_type", event.Type()),
				logging.String("run_id", event.RunID()),
				logging.Err(err))
		}
	}
}

// sameHandler compares handlers without panicking on uncomparable dynamic
// types such as HandlerFunc
func sameHandler(a, b EventHandler) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
