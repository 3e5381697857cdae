package operations

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents different lifecycle phases in query execution
type EventType string

const (
	EventFilterStart EventType = "filter_start"
	EventFilterEnd   EventType = "filter_end"
	EventGroupStart  EventType = "group_start"
	EventGroupEnd    EventType = "group_end"
	EventJoinStart   EventType = "join_start"
	EventJoinEnd     EventType = "join_end"
)

// Event represents a lifecycle event in query execution
type Event struct {
	Type      EventType
	QueryID   string // Unique query identifier for tracing
	Timestamp time.Time
	Table     string
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}

var (
	observerMu sync.RWMutex
	observers  []Observer
)

// RegisterObserver subscribes an observer to query lifecycle events.
func RegisterObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	observers = append(observers, o)
}

// UnregisterObserver removes a previously registered observer.
func UnregisterObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	for i, registered := range observers {
		if registered == o {
			observers = append(observers[:i], observers[i+1:]...)
			return
		}
	}
}

// notifyStart emits a start event with a fresh query ID and returns the ID
// so the matching end event can be correlated.
func notifyStart(typ EventType, tableName string) string {
	queryID := uuid.New().String()
	notify(Event{Type: typ, QueryID: queryID, Timestamp: time.Now(), Table: tableName})
	return queryID
}

func notifyEnd(typ EventType, queryID, tableName string) {
	notify(Event{Type: typ, QueryID: queryID, Timestamp: time.Now(), Table: tableName})
}

func notify(event Event) {
	observerMu.RLock()
	defer observerMu.RUnlock()
	for _, o := range observers {
		o.OnEvent(event)
	}
}
