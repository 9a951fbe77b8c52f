package state

import (
	"sync"

	"github.com/miguel-isidro05/neurosync-rehab/internal/models"
)

// DefaultHistorySize is the ring capacity used when no override is configured.
const DefaultHistorySize = 100

// Store is the shared connection/signal state. It is mutated only by the
// ingestion path and read by the HTTP projections; every mutation happens
// in a single critical section so readers never observe a torn update.
type Store struct {
	mu sync.Mutex

	connected     bool
	clientAddress string
	lastSignal    string
	lastTimestamp string
	hasSignal     bool
	totalSignals  uint64

	// history is a fixed-capacity ring, oldest evicted first.
	history []models.SignalRecord
	head    int
	count   int
}

func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &Store{history: make([]models.SignalRecord, capacity)}
}

// RecordConnect marks an ingestion connection as active. Concurrent
// connections are last-writer-wins on these fields.
func (s *Store) RecordConnect(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.clientAddress = address
}

// RecordDisconnect clears the active-connection fields.
func (s *Store) RecordDisconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.clientAddress = ""
}

// RecordSignal applies one accepted message as a single atomic step:
// last-signal fields, counter and history advance together.
func (s *Store) RecordSignal(rec models.SignalRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSignal = rec.Signal
	s.lastTimestamp = rec.Timestamp
	s.hasSignal = true
	s.totalSignals++

	if s.count == len(s.history) {
		s.history[s.head] = rec
		s.head = (s.head + 1) % len(s.history)
	} else {
		s.history[(s.head+s.count)%len(s.history)] = rec
		s.count++
	}
}

// Status returns the /status projection.
func (s *Store) Status() models.StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.StatusSnapshot{
		Connected:    s.connected,
		TotalSignals: s.totalSignals,
	}
	if s.hasSignal {
		sig, ts := s.lastSignal, s.lastTimestamp
		snap.LastSignal = &sig
		snap.LastTimestamp = &ts
	}
	return snap
}

// LastSignal returns the most recent record, or ok=false before any
// signal has arrived.
func (s *Store) LastSignal() (models.SignalRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSignal {
		return models.SignalRecord{}, false
	}
	return models.SignalRecord{Signal: s.lastSignal, Timestamp: s.lastTimestamp}, true
}

// History returns the last limit records in arrival order. A limit of
// zero or less returns the entire retained window. The result is a copy.
func (s *Store) History(limit int) []models.SignalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]models.SignalRecord, 0, n)
	start := s.count - n
	for i := start; i < s.count; i++ {
		out = append(out, s.history[(s.head+i)%len(s.history)])
	}
	return out
}

// HistoryLen returns the number of retained records.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// ConnectionCheck returns the /verify-connection projection.
func (s *Store) ConnectionCheck() models.ConnectionCheck {
	s.mu.Lock()
	defer s.mu.Unlock()

	check := models.ConnectionCheck{
		Connected:    s.connected,
		TotalSignals: s.totalSignals,
	}
	if s.clientAddress != "" {
		addr := s.clientAddress
		check.ClientAddress = &addr
	}
	return check
}
