package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/mirror/pkg/protocol"
)

// ErrRemote is returned by Receive when the peer sends an error frame.
var ErrRemote = errors.New("surface: remote error")

// WebSocketConfig configures a WebSocket adapter.
type WebSocketConfig struct {
	// WriteTimeout is the deadline for writing one command frame.
	// Zero disables the deadline. Default: 10 seconds.
	WriteTimeout time.Duration

	// Logger receives write failures. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultWebSocketConfig returns the default configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteTimeout: 10 * time.Second,
		Logger:       slog.Default(),
	}
}

// WebSocket sends commands over a websocket connection, one binary
// FrameCommand message per command. Emit may be called from several
// goroutines; writes are serialized.
//
// The first write failure is logged and kept, and every later command is
// dropped. Reconnecting means creating a new adapter and re-rendering.
type WebSocket struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	config WebSocketConfig
	err    error
	sent   int
	bytes  int
}

// NewWebSocket wraps conn.
func NewWebSocket(conn *websocket.Conn, config WebSocketConfig) *WebSocket {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &WebSocket{conn: conn, config: config}
}

// Emit implements protocol.Sink.
func (w *WebSocket) Emit(c protocol.Command) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}

	data := protocol.CommandFrame(c).Encode()
	if w.config.WriteTimeout > 0 {
		w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	}
	if err := w.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		w.err = fmt.Errorf("surface: write %s: %w", c.Op, err)
		w.config.Logger.Warn("websocket write failed",
			"op", c.Op.String(),
			"target", c.Target,
			"error", err)
		return
	}
	w.sent++
	w.bytes += len(data)
}

// Err returns the write error that stopped the adapter, if any.
func (w *WebSocket) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Sent returns the number of commands and bytes written.
func (w *WebSocket) Sent() (commands, bytes int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent, w.bytes
}

// Close sends a normal close message and closes the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	timeout := w.config.WriteTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(timeout))
	return w.conn.Close()
}

// Receive reads command frames from conn and emits the decoded commands to
// sink until the connection closes. A normal close returns nil.
func Receive(conn *websocket.Conn, sink protocol.Sink) error {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			return fmt.Errorf("surface: decode frame: %w", err)
		}
		switch frame.Type {
		case protocol.FrameCommand:
			cmd, err := frame.Command()
			if err != nil {
				return fmt.Errorf("surface: decode command: %w", err)
			}
			sink.Emit(cmd)
		case protocol.FrameError:
			return fmt.Errorf("%w: %s", ErrRemote, frame.Payload)
		default:
			return fmt.Errorf("%w: %s", protocol.ErrInvalidFrameType, frame.Type)
		}
	}
}

// Upgrade returns an http.Handler that upgrades each request to a
// websocket connection and passes a WebSocket adapter to fn. The
// connection is closed when fn returns. If upgrader is nil a zero
// websocket.Upgrader is used, which rejects cross-origin requests.
func Upgrade(upgrader *websocket.Upgrader, config WebSocketConfig, fn func(r *http.Request, ws *WebSocket)) http.Handler {
	if upgrader == nil {
		upgrader = &websocket.Upgrader{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// The upgrader has already replied with an HTTP error.
			logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		ws := NewWebSocket(conn, config)
		defer ws.Close()
		fn(r, ws)
	})
}
