// Package feed streams text component frames from a WebSocket endpoint. It wraps the
// gorilla/websocket package with a read pump and a write pump, so frames can be consumed with
// a context while requests are sent concurrently.
package feed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// defaultTimeout is the default dial and write timeout.
	defaultTimeout = 5 * time.Second
	// defaultChanBufferSize is the default size of the read and write channels.
	defaultChanBufferSize = 32
)

// ErrClosed is returned by Read and Send once the feed has been closed.
var ErrClosed = errors.New("feed closed")

// Message is one frame received from the feed.
type Message struct {
	Data     []byte
	Binary   bool
	Received time.Time
}

// Feed is a single WebSocket connection delivering text component frames.
type Feed struct {
	log zerolog.Logger

	conn   atomic.Pointer[websocket.Conn]
	dialer *websocket.Dialer

	readChan  chan *frame
	writeChan chan *frame
	nextID    atomic.Uint64

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	wgPumps   sync.WaitGroup

	timeout     time.Duration
	readTimeout time.Duration
}

// frame is a message or a terminal read error travelling through the pumps.
type frame struct {
	msg         Message
	err         error
	messageType int
}

// New creates a Feed. Nothing is connected until Dial is called.
func New(opts ...Option) *Feed {
	cfg := options{
		bufferSize: defaultChanBufferSize,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Feed{
		log: cfg.logger.With().Str("pkg", "feed").Logger(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.timeout,
			TLSClientConfig:  cfg.tlsConfig,
			Proxy:            http.ProxyFromEnvironment,
		},
		readChan:    make(chan *frame, cfg.bufferSize),
		writeChan:   make(chan *frame, cfg.bufferSize),
		ctx:         ctx,
		cancel:      cancel,
		timeout:     cfg.timeout,
		readTimeout: cfg.readTimeout,
	}
}

// Dial connects to target and starts the pumps. Custom headers are sent with the handshake.
func (f *Feed) Dial(ctx context.Context, target *url.URL, header http.Header) error {
	headers := http.Header{}
	for name, values := range header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	conn, resp, err := f.dialer.DialContext(ctx, target.String(), headers)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			defer func() {
				_ = resp.Body.Close()
			}()
			return fmt.Errorf("failed dial response '%s': %w", string(body), err)
		}
		return fmt.Errorf("failed to establish WebSocket connection: %w", err)
	}
	f.conn.Store(conn)
	f.log.Debug().Str("url", target.String()).Msg("Connected")

	f.wgPumps.Add(2)
	go f.readPump()
	go f.writePump()
	return nil
}

// Send queues data as a text frame.
func (f *Feed) Send(data []byte) error {
	return f.enqueue(&frame{msg: Message{Data: data}, messageType: websocket.TextMessage})
}

// SendBinary queues data as a binary frame.
func (f *Feed) SendBinary(data []byte) error {
	msg := Message{Data: data, Binary: true}
	return f.enqueue(&frame{msg: msg, messageType: websocket.BinaryMessage})
}

// SendJSON queues v encoded as JSON in a text frame.
func (f *Feed) SendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return f.Send(b)
}

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	RPCVersion string `json:"jsonrpc"`
	ID         uint64 `json:"id"`
	Method     string `json:"method"`
	Params     any    `json:"params,omitempty"`
}

// Call sends a JSON-RPC request for method and returns its id. Responses and notifications
// arrive through Read like any other frame.
func (f *Feed) Call(method string, params any) (uint64, error) {
	id := f.nextID.Add(1)
	req := Request{RPCVersion: "2.0", ID: id, Method: method, Params: params}
	return id, f.SendJSON(req)
}

func (f *Feed) enqueue(fr *frame) error {
	select {
	case <-f.ctx.Done():
		return ErrClosed
	default:
	}

	select {
	case f.writeChan <- fr:
		return nil
	case <-f.ctx.Done():
		f.log.Debug().Msg("Dropping write message, connection closing")
		return ErrClosed
	}
}

// Read blocks until a frame arrives, ctx is done or the connection fails. A failed
// connection is reported once with its cause; later calls return ErrClosed.
func (f *Feed) Read(ctx context.Context) (Message, error) {
	select {
	case fr := <-f.readChan:
		return fr.result()
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-f.ctx.Done():
		// The read pump may have queued its final error just before closing.
		select {
		case fr := <-f.readChan:
			return fr.result()
		default:
			return Message{}, ErrClosed
		}
	}
}

func (fr *frame) result() (Message, error) {
	if fr.err == nil {
		return fr.msg, nil
	}
	if websocket.IsCloseError(fr.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return Message{}, io.EOF
	}
	return Message{}, fr.err
}

// readPump reads frames from the connection and sends them to the read channel.
func (f *Feed) readPump() {
	defer func() {
		f.wgPumps.Done()
		f.Close()
	}()

	for {
		select {
		case <-f.ctx.Done():
			return
		default:
		}

		conn := f.conn.Load()
		if conn == nil {
			f.log.Debug().Msg("Connection already closed, exiting read pump")
			return
		}

		if f.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(f.readTimeout)); err != nil {
				f.log.Debug().Err(err).Msg("Failed to set read deadline")
			}
		}

		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if f.ctx.Err() != nil {
				return
			}
			select {
			case f.readChan <- &frame{err: err, messageType: messageType}:
			case <-f.ctx.Done():
				f.log.Debug().Msg("Context done, dropping error read")
			}
			return
		}

		msg := Message{Data: p, Binary: messageType == websocket.BinaryMessage, Received: time.Now()}
		select {
		case f.readChan <- &frame{msg: msg, messageType: messageType}:
		case <-f.ctx.Done():
			f.log.Debug().Msg("Context done, dropping read message")
			return
		}
	}
}

// writePump writes queued frames to the connection.
func (f *Feed) writePump() {
	defer func() {
		f.wgPumps.Done()
		f.Close()
	}()

	for {
		select {
		case <-f.ctx.Done():
			return
		case write := <-f.writeChan:
			conn := f.conn.Load()
			if conn == nil {
				f.log.Debug().Msg("Connection already closed, skipping write")
				return
			}

			if err := conn.SetWriteDeadline(time.Now().Add(f.timeout)); err != nil {
				f.log.Debug().Err(err).Msg("Failed to set write deadline")
			}

			if err := conn.WriteMessage(write.messageType, write.msg.Data); err != nil {
				f.log.Debug().Err(err).Msg("Failed to write message")
				return
			}
		}
	}
}

// Close sends a close frame, closes the connection and waits for the pumps to exit. It is
// safe to call more than once.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.cancel()

		conn := f.conn.Load()
		if conn != nil {
			if err := conn.SetReadDeadline(time.Now()); err != nil {
				f.log.Debug().Err(err).Msg("Failed to set read deadline")
			}

			closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			deadline := time.Now().Add(time.Second)
			if err := conn.WriteControl(
				websocket.CloseMessage,
				closeMessage,
				deadline,
			); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				f.log.Debug().Err(err).Msg("Failed to write close message")
			}

			if err := conn.Close(); err != nil {
				f.log.Debug().Err(err).Msg("Failed to close connection")
			}
		}

		// Close is also reached from the pumps themselves, so waiting is bounded.
		done := make(chan struct{})
		go func() {
			f.wgPumps.Wait()
			close(done)
		}()
		select {
		case <-done:
			f.conn.Store(nil)
		case <-time.After(2 * time.Second):
			f.log.Debug().Msg("Timeout waiting for feed pumps")
		}
	})
}

// Option configures a Feed.
type Option func(*options)

// options stores the configuration for a Feed.
type options struct {
	tlsConfig   *tls.Config
	timeout     time.Duration
	readTimeout time.Duration
	bufferSize  int
	logger      zerolog.Logger
}

// WithBufferSize sets the buffer size of the read and write channels.
func WithBufferSize(n int) Option { return func(o *options) { o.bufferSize = n } }

// WithLogger sets the logger of the Feed.
func WithLogger(logger zerolog.Logger) Option { return func(o *options) { o.logger = logger } }

// WithTimeout sets the timeout used for the handshake and for each write.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithReadTimeout closes the feed when no frame arrives within d. Zero waits forever.
func WithReadTimeout(d time.Duration) Option { return func(o *options) { o.readTimeout = d } }

// WithTLSConfig sets the TLS configuration for wss targets.
func WithTLSConfig(cfg *tls.Config) Option { return func(o *options) { o.tlsConfig = cfg } }
