package ingest

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguel-isidro05/neurosync-rehab/internal/bridge"
	"github.com/miguel-isidro05/neurosync-rehab/internal/config"
	"github.com/miguel-isidro05/neurosync-rehab/internal/state"
)

func startServer(t *testing.T) (*Server, *state.Store, *bridge.Bus) {
	t.Helper()

	cfg := &config.Config{TCPPort: "0", ReadBufferSize: 1024}
	store := state.New(100)
	bus := bridge.New()
	srv := New(cfg, store, bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("ingest server did not shut down")
		}
	})

	require.Eventually(t, func() bool { return srv.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	return srv, store, bus
}

// sendAndAck writes one message and waits for its acknowledgment, which
// also guarantees the server reads each message as its own chunk.
func sendAndAck(t *testing.T, conn net.Conn, r *bufio.Reader, msg string) string {
	t.Helper()

	_, err := conn.Write([]byte(msg))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestIngestParsesRecordsAndAcks(t *testing.T) {
	srv, store, bus := startServer(t)

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	assert.Equal(t, "ACK: izquierda\n", sendAndAck(t, conn, r, "LEFT"))
	assert.Equal(t, "ACK: derecha\n", sendAndAck(t, conn, r, "right\n"))
	assert.Equal(t, "ACK: hello world\n", sendAndAck(t, conn, r, "  Hello World  "))

	status := store.Status()
	assert.Equal(t, uint64(3), status.TotalSignals)
	require.NotNil(t, status.LastSignal)
	assert.Equal(t, "hello world", *status.LastSignal)
	assert.True(t, status.Connected)

	history := store.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, "izquierda", history[0].Signal)
	assert.Equal(t, "LEFT", history[0].RawData)

	// Each accepted message also crossed the bridge, in order.
	for _, want := range []string{"izquierda", "derecha", "hello world"} {
		select {
		case ev := <-bus.Events():
			assert.Equal(t, want, ev.Signal)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for bridge event")
		}
	}

	check := store.ConnectionCheck()
	require.NotNil(t, check.ClientAddress)
	assert.Equal(t, conn.LocalAddr().String(), *check.ClientAddress)
}

func TestIngestGracefulRemoteClose(t *testing.T) {
	srv, store, _ := startServer(t)

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return store.Status().Connected }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !store.Status().Connected }, 2*time.Second, 10*time.Millisecond)
}

func TestIngestCountsSignalsWithZeroObservers(t *testing.T) {
	srv, store, bus := startServer(t)

	// Nothing drains the bus; signals are still accepted and counted.
	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	const n = 5
	for i := 0; i < n; i++ {
		sendAndAck(t, conn, r, fmt.Sprintf("signal %d", i))
	}

	assert.Equal(t, uint64(n), store.Status().TotalSignals)
	assert.Equal(t, n, len(bus.Events()))
}

func TestIngestAcceptsReplacementConnection(t *testing.T) {
	srv, store, _ := startServer(t)

	first, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return store.Status().Connected }, 2*time.Second, 10*time.Millisecond)

	// A second source connection is accepted; the store reflects the
	// most recent connect (last writer wins).
	second, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool {
		check := store.ConnectionCheck()
		return check.ClientAddress != nil && *check.ClientAddress == second.LocalAddr().String()
	}, 2*time.Second, 10*time.Millisecond)
}
