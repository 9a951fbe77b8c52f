// Package ingest accepts the signal source's TCP connection and turns
// its raw chunks into recorded, broadcast signals.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/miguel-isidro05/neurosync-rehab/internal/bridge"
	"github.com/miguel-isidro05/neurosync-rehab/internal/config"
	"github.com/miguel-isidro05/neurosync-rehab/internal/metrics"
	"github.com/miguel-isidro05/neurosync-rehab/internal/models"
	"github.com/miguel-isidro05/neurosync-rehab/internal/parser"
	"github.com/miguel-isidro05/neurosync-rehab/internal/state"
)

type Server struct {
	addr    string
	bufSize int
	store   *state.Store
	bus     *bridge.Bus

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
}

func New(cfg *config.Config, store *state.Store, bus *bridge.Bus) *Server {
	return &Server{
		addr:    ":" + cfg.TCPPort,
		bufSize: cfg.ReadBufferSize,
		store:   store,
		bus:     bus,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Addr reports the bound listen address, or "" before Run has bound it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run listens for signal-source connections until ctx is cancelled.
// Each accepted connection gets its own goroutine; a silent connection
// holds that goroutine indefinitely (no read timeout by design of the
// source protocol). Concurrent connections are allowed, last writer
// wins on the store's connected/client fields.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	log.Info().Str("addr", ln.Addr().String()).Msg("TCP ingest listening")

	go func() {
		<-ctx.Done()
		ln.Close()
		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				wg.Wait()
				return nil
			}
			log.Error().Err(err).Msg("accept failed")
			continue
		}

		s.track(conn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// handleConn runs the per-connection streaming loop: read a chunk,
// parse it as one signal, record it, publish it, acknowledge it.
func (s *Server) handleConn(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	log.Info().Str("addr", addr).Msg("signal source connected")
	s.store.RecordConnect(addr)
	metrics.IngestConnections.Inc()

	defer func() {
		s.store.RecordDisconnect()
		conn.Close()
		log.Info().Str("addr", addr).Msg("signal source disconnected")
	}()

	buf := make([]byte, s.bufSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			s.accept(conn, addr, buf[:n])
		}
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				log.Warn().Err(err).Str("addr", addr).Msg("ingest read error")
			}
			return
		}
	}
}

func (s *Server) accept(conn net.Conn, addr string, raw []byte) {
	signal := parser.Parse(raw)
	timestamp := time.Now().Format(time.RFC3339Nano)

	s.store.RecordSignal(models.SignalRecord{
		Signal:    signal,
		Timestamp: timestamp,
		RawData:   parser.DecodeRaw(raw),
	})
	metrics.SignalsReceived.Inc()

	s.bus.Publish(models.SignalEvent{Signal: signal, Timestamp: timestamp})

	log.Info().Str("signal", signal).Str("addr", addr).Msg("signal received")

	// Best effort: a failed ack surfaces through the read path.
	if _, err := conn.Write([]byte("ACK: " + signal + "\n")); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("ack write failed")
	}
}
