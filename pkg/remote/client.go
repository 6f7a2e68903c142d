package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/version"
)

// ErrConnectionClosed indicates an operation on a closed client.
var ErrConnectionClosed = errors.New("connection closed")

// ClientConfig configures a client connection.
type ClientConfig struct {
	// PSK authenticates the session when non-empty. The client then also
	// requires the agent to prove knowledge of the same key.
	PSK []byte

	// MaxMessageSize is the maximum frame payload size (default: 64KB).
	MaxMessageSize uint32

	// ConnectTimeout bounds the dial and handshake (default: 10s) when
	// the dial context carries no deadline of its own.
	ConnectTimeout time.Duration
}

// Client is a register-value source and sink served by a remote agent.
// It implements bus.Bus, so a Binding works the same over a network as
// over a MemBus. One request is in flight at a time; calls from multiple
// goroutines serialize on the connection.
type Client struct {
	conn    net.Conn
	framer  *Framer
	session string

	mu     sync.Mutex
	nextID uint32

	closeOnce sync.Once
	closed    chan struct{}
}

// Compile-time interface satisfaction check.
var _ bus.Bus = (*Client)(nil)

// Dial connects to an agent and performs the handshake.
func Dial(ctx context.Context, address string, config ClientConfig) (*Client, error) {
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{
		conn:   conn,
		framer: NewFramerWithMaxSize(conn, config.MaxMessageSize),
		closed: make(chan struct{}),
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	if err := c.handshake(config.PSK); err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetDeadline(time.Time{})

	return c, nil
}

// DialWithRetry dials with exponential backoff until the context is
// canceled or maxAttempts is exhausted (0 means unlimited).
func DialWithRetry(ctx context.Context, address string, config ClientConfig, maxAttempts int) (*Client, error) {
	backoff := NewBackoff()

	for {
		client, err := Dial(ctx, address, config)
		if err == nil {
			return client, nil
		}

		if maxAttempts > 0 && backoff.Attempts()+1 >= maxAttempts {
			return nil, fmt.Errorf("dial failed after %d attempts: %w", maxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff.Next()):
		}
	}
}

// handshake performs the hello exchange and, when a PSK is configured,
// the proof rounds.
func (c *Client) handshake(psk []byte) error {
	hello := Hello{Protocol: version.CurrentProtocolID()}

	var clientNonce []byte
	if len(psk) > 0 {
		var err error
		clientNonce, err = newNonce()
		if err != nil {
			return err
		}
		hello.Nonce = clientNonce
	}

	data, err := Marshal(&hello)
	if err != nil {
		return fmt.Errorf("failed to encode hello: %w", err)
	}
	if err := c.framer.WriteFrame(data); err != nil {
		return fmt.Errorf("failed to write hello: %w", err)
	}

	data, err = c.framer.ReadFrame()
	if err != nil {
		return fmt.Errorf("failed to read challenge: %w", err)
	}
	var challenge Challenge
	if err := Unmarshal(data, &challenge); err != nil {
		return fmt.Errorf("failed to decode challenge: %w", err)
	}
	c.session = challenge.Session

	major, err := version.MajorFromProtocolID(challenge.Protocol)
	if err != nil {
		return fmt.Errorf("%w: agent sent %q", ErrProtocolMismatch, challenge.Protocol)
	}
	if current, _ := version.Parse(version.Current); major != current.Major {
		return fmt.Errorf("%w: agent speaks %q, this client %q",
			ErrProtocolMismatch, challenge.Protocol, version.CurrentProtocolID())
	}

	if len(psk) == 0 {
		return nil
	}
	if len(challenge.Nonce) == 0 {
		return fmt.Errorf("%w: agent did not present a proof", ErrUnauthenticated)
	}

	key, err := deriveSessionKey(psk, clientNonce, challenge.Nonce)
	if err != nil {
		return err
	}
	if !verifyProof(challenge.Proof, serverProof(key, challenge.Nonce, clientNonce)) {
		return fmt.Errorf("%w: agent proof mismatch", ErrUnauthenticated)
	}

	proof := Proof{Proof: clientProof(key, clientNonce, challenge.Nonce)}
	data, err = Marshal(&proof)
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	if err := c.framer.WriteFrame(data); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	return nil
}

// SessionID returns the agent-assigned session identifier.
func (c *Client) SessionID() string {
	return c.session
}

// Read returns the raw value of the register served at offset.
func (c *Client) Read(ctx context.Context, offset uint64, width register.Width) (uint32, error) {
	resp, err := c.roundTrip(ctx, &Request{
		Op:     OpRead,
		Offset: offset,
		Width:  uint8(width),
	})
	if err != nil {
		return 0, err
	}
	if err := errorFromStatus(resp.Status, resp.Detail); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Write replaces the raw value of the register served at offset.
func (c *Client) Write(ctx context.Context, offset uint64, width register.Width, value uint32) error {
	resp, err := c.roundTrip(ctx, &Request{
		Op:     OpWrite,
		Offset: offset,
		Width:  uint8(width),
		Value:  value,
	})
	if err != nil {
		return err
	}
	return errorFromStatus(resp.Status, resp.Detail)
}

// List returns the agent's served registers.
func (c *Client) List(ctx context.Context) ([]ListEntry, error) {
	resp, err := c.roundTrip(ctx, &Request{Op: OpList})
	if err != nil {
		return nil, err
	}
	if err := errorFromStatus(resp.Status, resp.Detail); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

// roundTrip sends one request and reads its response, honoring the
// context deadline through the connection deadline.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
		return nil, ErrConnectionClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.nextID++
	req.ID = c.nextID

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
		defer c.conn.SetDeadline(time.Time{})
	}

	data, err := Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	if err := c.framer.WriteFrame(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	data, err = c.framer.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response ID %d does not match request ID %d", resp.ID, req.ID)
	}
	return &resp, nil
}
