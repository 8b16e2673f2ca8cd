package ledger

import "sync"

// Connection is a snapshot of the wallet connection shared by the session.
type Connection struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
}

// ConnectionState holds the process-wide wallet connection with a single
// writer discipline: only the gateway's connect/disconnect paths mutate it.
// Readers subscribe for change notifications instead of polling; observers
// are notified synchronously before the mutating call returns.
type ConnectionState struct {
	mu          sync.Mutex
	current     Connection
	nextID      int
	subscribers map[int]func(Connection)
}

// NewConnectionState creates an empty, disconnected state.
func NewConnectionState() *ConnectionState {
	return &ConnectionState{subscribers: map[int]func(Connection){}}
}

// Current returns the latest connection snapshot.
func (s *ConnectionState) Current() Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers an observer for connection changes and returns a
// function that removes it.
func (s *ConnectionState) Subscribe(fn func(Connection)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// set replaces the snapshot and notifies every observer before returning.
func (s *ConnectionState) set(c Connection) {
	s.mu.Lock()
	s.current = c
	observers := make([]func(Connection), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(c)
	}
}
