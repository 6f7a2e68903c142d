package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/version"
)

// DefaultPort is the default agent port.
const DefaultPort = 7442

// handshakeTimeout bounds the hello and proof rounds of a new connection.
const handshakeTimeout = 10 * time.Second

// ServerConfig configures an agent server.
type ServerConfig struct {
	// Address to listen on (e.g. ":7442" or "127.0.0.1:0").
	Address string

	// PSK enables session authentication when non-empty. Unauthenticated
	// sessions complete the handshake but all requests are denied.
	PSK []byte

	// MaxMessageSize is the maximum frame payload size (default: 64KB).
	MaxMessageSize uint32

	// Logger for connection lifecycle logging (optional).
	Logger *slog.Logger
}

// Server serves one register space over framed CBOR. Connections are
// handled one goroutine each; all space access goes through a single
// mutex, which WithSpace exposes to device-side code such as agent
// simulation loops.
type Server struct {
	config   ServerConfig
	listener net.Listener
	logger   *slog.Logger

	space   *register.Space
	spaceMu sync.Mutex

	conns   map[*serverConn]struct{}
	connsMu sync.Mutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server for the given space.
func NewServer(space *register.Space, config ServerConfig) (*Server, error) {
	if space == nil {
		return nil, fmt.Errorf("space is required")
	}
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		config: config,
		logger: logger,
		space:  space,
		conns:  make(map[*serverConn]struct{}),
	}, nil
}

// Start begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.running.Store(true)

	s.logger.Info("agent listening",
		slog.String("addr", listener.Addr().String()),
		slog.String("space", s.space.Name()),
		slog.Bool("auth", len(s.config.PSK) > 0))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop closes the listener and all connections and waits for the
// per-connection goroutines to finish.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return len(s.conns)
}

// WithSpace runs fn with the served space under the server's lock. This
// is the only safe way for device-side code to mutate registers while
// the server is running.
func (s *Server) WithSpace(fn func(*register.Space)) {
	s.spaceMu.Lock()
	defer s.spaceMu.Unlock()
	fn(s.space)
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.logger.Warn("accept failed", slog.String("err", err.Error()))
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection runs the handshake and then the request loop for one
// connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	sconn := &serverConn{
		conn:    conn,
		framer:  NewFramerWithMaxSize(conn, s.config.MaxMessageSize),
		server:  s,
		session: uuid.New().String(),
	}
	defer sconn.close()

	// Track the connection before the handshake so Stop can unblock a
	// client that stalls mid-exchange.
	s.connsMu.Lock()
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, sconn)
		s.connsMu.Unlock()
	}()

	logger := s.logger.With(
		slog.String("session", sconn.session),
		slog.String("remote", conn.RemoteAddr().String()))

	conn.SetDeadline(time.Now().Add(handshakeTimeout))
	if err := sconn.handshake(); err != nil {
		logger.Warn("handshake failed", slog.String("err", err.Error()))
		return
	}
	conn.SetDeadline(time.Time{})
	logger.Debug("session established", slog.Bool("authenticated", sconn.authed))

	sconn.requestLoop(logger)

	logger.Debug("session closed")
}

// serverConn is one client connection.
type serverConn struct {
	conn      net.Conn
	framer    *Framer
	server    *Server
	session   string
	authed    bool
	closeOnce sync.Once
}

func (c *serverConn) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// handshake performs the hello exchange and, when both sides carry a
// pre-shared key, the proof rounds. A failed proof leaves the session
// unauthenticated rather than closing it; requests are denied instead.
func (c *serverConn) handshake() error {
	data, err := c.framer.ReadFrame()
	if err != nil {
		return fmt.Errorf("failed to read hello: %w", err)
	}
	var hello Hello
	if err := Unmarshal(data, &hello); err != nil {
		return fmt.Errorf("failed to decode hello: %w", err)
	}

	challenge := Challenge{
		Protocol: version.CurrentProtocolID(),
		Session:  c.session,
	}

	requireAuth := len(c.server.config.PSK) > 0
	var key []byte
	if requireAuth && len(hello.Nonce) > 0 {
		serverNonce, err := newNonce()
		if err != nil {
			return err
		}
		key, err = deriveSessionKey(c.server.config.PSK, hello.Nonce, serverNonce)
		if err != nil {
			return err
		}
		challenge.Nonce = serverNonce
		challenge.Proof = serverProof(key, serverNonce, hello.Nonce)
	}

	ack, err := Marshal(&challenge)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := c.framer.WriteFrame(ack); err != nil {
		return fmt.Errorf("failed to write challenge: %w", err)
	}

	// An incompatible client reads our protocol from the challenge and
	// hangs up; the server drops the connection from its side too.
	major, err := version.MajorFromProtocolID(hello.Protocol)
	if err != nil {
		return fmt.Errorf("client protocol %q: %w", hello.Protocol, err)
	}
	if current, _ := version.Parse(version.Current); major != current.Major {
		return fmt.Errorf("client protocol %q is not supported", hello.Protocol)
	}

	if !requireAuth {
		c.authed = true
		return nil
	}
	if len(hello.Nonce) == 0 {
		return nil
	}

	data, err = c.framer.ReadFrame()
	if err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}
	var proof Proof
	if err := Unmarshal(data, &proof); err != nil {
		return fmt.Errorf("failed to decode proof: %w", err)
	}

	want := clientProof(key, hello.Nonce, challenge.Nonce)
	c.authed = verifyProof(proof.Proof, want)
	return nil
}

// requestLoop reads requests and writes responses until the connection
// closes.
func (c *serverConn) requestLoop(logger *slog.Logger) {
	for {
		select {
		case <-c.server.ctx.Done():
			return
		default:
		}

		data, err := c.framer.ReadFrame()
		if err != nil {
			if err != io.EOF && c.server.running.Load() {
				logger.Debug("read failed", slog.String("err", err.Error()))
			}
			return
		}

		var req Request
		if err := Unmarshal(data, &req); err != nil {
			logger.Debug("bad request frame", slog.String("err", err.Error()))
			return
		}

		resp := c.handleRequest(&req)
		out, err := Marshal(resp)
		if err != nil {
			logger.Warn("failed to encode response", slog.String("err", err.Error()))
			return
		}
		if err := c.framer.WriteFrame(out); err != nil {
			return
		}
	}
}

// handleRequest applies one request against the served space.
func (c *serverConn) handleRequest(req *Request) *Response {
	resp := &Response{ID: req.ID}

	if !c.authed {
		resp.Status = StatusUnauthenticated
		resp.Detail = "session is not authenticated"
		return resp
	}
	if err := req.Validate(); err != nil {
		resp.Status = StatusInternal
		resp.Detail = err.Error()
		return resp
	}

	c.server.spaceMu.Lock()
	defer c.server.spaceMu.Unlock()
	space := c.server.space

	switch req.Op {
	case OpList:
		entries := space.Entries()
		resp.Entries = make([]ListEntry, 0, len(entries))
		for _, e := range entries {
			resp.Entries = append(resp.Entries, ListEntry{
				Offset: e.Offset,
				Width:  uint8(e.Register.Width()),
				Name:   e.Register.Name(),
			})
		}

	case OpRead:
		reg, err := c.lookup(space, req)
		if err != nil {
			resp.Status, resp.Detail = statusFromError(err)
			return resp
		}
		resp.Value = reg.Value()

	case OpWrite:
		reg, err := c.lookup(space, req)
		if err != nil {
			resp.Status, resp.Detail = statusFromError(err)
			return resp
		}
		if err := reg.SetValue(req.Value); err != nil {
			resp.Status, resp.Detail = statusFromError(err)
			return resp
		}
		// The write landed on the device's own state; there is nothing
		// left to flush.
		reg.ClearDirty()
	}

	return resp
}

// lookup resolves the request's offset and checks the width expectation.
func (c *serverConn) lookup(space *register.Space, req *Request) (*register.Register, error) {
	reg, ok := space.At(req.Offset)
	if !ok {
		return nil, fmt.Errorf("%w: no register at offset 0x%X", bus.ErrUnknownRegister, req.Offset)
	}
	if req.Width != 0 && req.Width != uint8(reg.Width()) {
		return nil, fmt.Errorf("%w: %s is %s, requested %d-bit",
			ErrWidthMismatch, reg.Name(), reg.Width(), req.Width)
	}
	return reg, nil
}
