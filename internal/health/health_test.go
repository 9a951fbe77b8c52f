package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCollectsBestEffort(t *testing.T) {
	snap := Snapshot()

	// Collection must never panic; on any supported platform at least
	// the CPU count should come back.
	assert.GreaterOrEqual(t, snap.CPUCount, 1)
	assert.GreaterOrEqual(t, snap.CPUPercent, 0.0)
}
