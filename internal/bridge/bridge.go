// Package bridge moves signals from the blocking ingestion goroutines to
// the single-goroutine broadcast hub without either side waiting on the
// other.
package bridge

import (
	"github.com/rs/zerolog/log"

	"github.com/miguel-isidro05/neurosync-rehab/internal/metrics"
	"github.com/miguel-isidro05/neurosync-rehab/internal/models"
)

const defaultBuffer = 256

type Bus struct {
	ch chan models.SignalEvent
}

func New() *Bus {
	return &Bus{ch: make(chan models.SignalEvent, defaultBuffer)}
}

// Publish enqueues an event for fan-out. It never blocks: if the hub is
// not draining (startup race, overload), the live broadcast is dropped
// and logged. The signal itself is already recorded in the state store.
func (b *Bus) Publish(event models.SignalEvent) {
	select {
	case b.ch <- event:
	default:
		metrics.BroadcastsDropped.Inc()
		log.Warn().
			Str("signal", event.Signal).
			Msg("broadcast queue full, dropping live fan-out")
	}
}

// Events is drained by the hub run loop, preserving arrival order.
func (b *Bus) Events() <-chan models.SignalEvent {
	return b.ch
}
