package snapcast

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	// ErrNotConnected is returned by commands issued while the session is
	// between connections.
	ErrNotConnected = errors.New("not connected to Snapcast server")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("session closed")
)

// DefaultPort is the Snapcast JSON-RPC TCP port.
const DefaultPort = 1705

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
	maxLineSize         = 4 * 1024 * 1024
)

// Status is a connection-status transition.
type Status int

const (
	Connected Status = iota
	Disconnected
	ReconnectFailed
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case ReconnectFailed:
		return "reconnect failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one inbound message. Err is nil when the message
// was applied to the state mirror.
type Result struct {
	Method string
	Err    error
}

// Batch holds the results of one inbound line together with a snapshot of
// the state mirror taken right after they were applied.
type Batch struct {
	Results []Result
	State   *State
}

// Dialer opens the TCP connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options tune a Session. Zero values pick the defaults.
type Options struct {
	Logger       *zap.Logger
	Dialer       Dialer
	NewBackOff   func() backoff.BackOff
	WriteTimeout time.Duration
}

// DefaultBackOff retries after 1s, doubling up to 30s, forever.
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Session is a JSON-RPC connection to a Snapcast server that keeps a
// mirror of the server state and reconnects on its own.
type Session struct {
	addr string
	opts Options
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// writeMu serializes writes to conn; mu is never held across one.
	writeMu sync.Mutex

	mu      sync.Mutex
	conn    net.Conn
	closed  bool
	nextID  uint64
	pending map[uint64]pendingCall
	state   *State

	batches  chan Batch
	statuses chan Status

	closeOnce sync.Once
}

// Dial connects to addr (host:port). The first connection attempt must
// succeed; later drops are retried in the background. Connected is the
// first status delivered.
func Dial(ctx context.Context, addr string, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Dialer == nil {
		opts.Dialer = &net.Dialer{Timeout: defaultDialTimeout}
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = DefaultBackOff
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}

	conn, err := opts.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to Snapcast server at %s: %w", addr, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		addr:     addr,
		opts:     opts,
		log:      opts.Logger.With(zap.String("server", addr)),
		ctx:      runCtx,
		cancel:   cancel,
		conn:     conn,
		pending:  make(map[uint64]pendingCall),
		state:    NewState(),
		batches:  make(chan Batch, 64),
		statuses: make(chan Status, 16),
	}
	s.log.Info("connected")
	s.statuses <- Connected

	s.wg.Add(1)
	go s.run(conn)
	return s, nil
}

// Addr returns the server address the session dials.
func (s *Session) Addr() string { return s.addr }

// Batches delivers one Batch per inbound line. Closed after Close.
func (s *Session) Batches() <-chan Batch { return s.batches }

// Statuses delivers connection-status transitions. Closed after Close.
func (s *Session) Statuses() <-chan Status { return s.statuses }

// Snapshot returns a copy of the current state mirror.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// RequestStatus asks for the full server state.
func (s *Session) RequestStatus() error {
	return s.call(MethodGetStatus, "", nil)
}

// SetClientVolume sets percent and mute flag of one client together.
func (s *Session) SetClientVolume(id string, v Volume) error {
	return s.call(MethodClientSetVolume, id, clientVolumeParams{ID: id, Volume: v})
}

// SetGroupMute sets the mute flag of one group.
func (s *Session) SetGroupMute(id string, muted bool) error {
	return s.call(MethodGroupSetMute, id, groupMuteParams{ID: id, Mute: muted})
}

// Close stops the background goroutines and closes the connection. The
// channels are closed once everything has exited.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		conn := s.conn
		s.conn = nil
		s.mu.Unlock()

		s.cancel()
		if conn != nil {
			conn.Close()
		}
		s.wg.Wait()
		s.log.Info("session closed")
	})
	return nil
}

func (s *Session) call(method, target string, params any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	conn := s.conn
	if conn == nil {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.nextID++
	id := s.nextID
	data, err := json.Marshal(request{ID: id, JSONRPC: jsonrpcVersion, Method: method, Params: params})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode %s: %w", method, err)
	}
	s.pending[id] = pendingCall{method: method, target: target}
	s.mu.Unlock()

	// A slow peer holds up writers only; the reader keeps applying.
	if err := s.write(conn, append(data, '\n')); err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return fmt.Errorf("send %s: %w", method, err)
	}
	s.log.Debug("sent request", zap.Uint64("id", id), zap.String("method", method), zap.String("target", target))
	return nil
}

func (s *Session) write(conn net.Conn, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		// The reader notices the closed connection and starts reconnecting.
		conn.Close()
		return err
	}
	return nil
}

func (s *Session) run(conn net.Conn) {
	defer s.wg.Done()
	defer close(s.statuses)
	defer close(s.batches)

	for {
		err := s.readLoop(conn)
		if s.ctx.Err() != nil {
			return
		}
		s.log.Warn("connection lost", zap.Error(err))
		s.dropConn(conn)
		if !s.emitStatus(Disconnected) {
			return
		}
		conn = s.reconnect()
		if conn == nil {
			return
		}
	}
}

func (s *Session) readLoop(conn net.Conn) error {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		msgs, err := parseLine(scanner.Bytes())
		if err != nil {
			s.log.Warn("dropping undecodable line", zap.Error(err))
			continue
		}
		if len(msgs) == 0 {
			continue
		}
		if !s.emitBatch(s.apply(msgs)) {
			return s.ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

// apply folds inbound messages into the mirror and snapshots the result.
func (s *Session) apply(msgs []message) Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]Result, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ID == nil {
			results = append(results, Result{
				Method: msg.Method,
				Err:    s.state.applyNotification(msg.Method, msg.Params),
			})
			continue
		}

		call, ok := s.pending[*msg.ID]
		delete(s.pending, *msg.ID)
		switch {
		case msg.Error != nil:
			results = append(results, Result{Method: call.method, Err: msg.Error})
		case !ok:
			s.log.Debug("response for unknown request", zap.Uint64("id", *msg.ID))
			results = append(results, Result{})
		default:
			results = append(results, Result{Method: call.method, Err: s.state.applyResult(call, msg.Result)})
		}
	}
	return Batch{Results: results, State: s.state.Clone()}
}

func (s *Session) dropConn(conn net.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	clear(s.pending)
	s.mu.Unlock()
	conn.Close()
}

// reconnect dials until it succeeds or the session is closed.
func (s *Session) reconnect() net.Conn {
	b := s.opts.NewBackOff()
	b.Reset()
	for attempt := 1; ; attempt++ {
		delay := b.NextBackOff()
		if delay == backoff.Stop {
			delay = 30 * time.Second
		}
		timer := time.NewTimer(delay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		conn, err := s.opts.Dialer.DialContext(s.ctx, "tcp", s.addr)
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			s.log.Debug("reconnect failed", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
			if !s.emitStatus(ReconnectFailed) {
				return nil
			}
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conn = conn
		s.mu.Unlock()

		s.log.Info("reconnected", zap.Int("attempt", attempt))
		if !s.emitStatus(Connected) {
			return nil
		}
		return conn
	}
}

func (s *Session) emitBatch(b Batch) bool {
	select {
	case s.batches <- b:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session) emitStatus(st Status) bool {
	select {
	case s.statuses <- st:
		return true
	case <-s.ctx.Done():
		return false
	}
}
