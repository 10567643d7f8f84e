package venue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second

	handshakeTimeout = 15 * time.Second
)

// wsClient owns the connection lifecycle shared by all exchange connectors:
// dial, keep-alive pings, read dispatch, and reconnection with exponential
// backoff. Exchange specifics (subscribe payloads, message parsing) are
// injected by the concrete connector.
type wsClient struct {
	url    string
	logger *slog.Logger

	// subscribe returns the messages sent after every (re)connect.
	subscribe func() [][]byte

	// handle parses one raw message from the exchange.
	handle func(raw []byte)

	mu     sync.RWMutex
	conn   *websocket.Conn
	closed bool

	done chan struct{}
}

func newWSClient(url string, logger *slog.Logger, subscribe func() [][]byte, handle func(raw []byte)) *wsClient {
	return &wsClient{
		url:       url,
		logger:    logger,
		subscribe: subscribe,
		handle:    handle,
		done:      make(chan struct{}),
	}
}

// connect dials the exchange, starts the read and ping loops, and replays the
// connector's subscribe messages.
func (w *wsClient) connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("venue/ws: %w", domain.ErrWSDisconnect)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("venue/ws: connect %s: %w", w.url, err)
	}

	w.conn = conn

	// Set up pong handler for keep-alive.
	w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		w.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go w.readLoop()
	go w.pingLoop()

	for _, msg := range w.subscribe() {
		w.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return fmt.Errorf("venue/ws: subscribe: %w", err)
		}
	}

	return nil
}

// close shuts down the connection and stops the background loops.
func (w *wsClient) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	close(w.done)

	if w.conn != nil {
		_ = w.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		return w.conn.Close()
	}

	return nil
}

// readLoop continuously reads messages and hands them to the connector's
// handler. On disconnect it attempts to reconnect with exponential backoff.
func (w *wsClient) readLoop() {
	for {
		select {
		case <-w.done:
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-w.done:
				return
			default:
			}

			w.logger.Warn("websocket read failed, reconnecting", slog.String("url", w.url), slog.Any("error", err))
			w.reconnect()
			return // readLoop is restarted by reconnect -> connect
		}

		w.handle(message)
	}
}

// pingLoop sends periodic ping messages to keep the connection alive.
func (w *wsClient) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.mu.RLock()
			conn := w.conn
			w.mu.RUnlock()

			if conn == nil {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reconnect re-establishes the connection with exponential backoff. It blocks
// until successful or until the client is closed.
func (w *wsClient) reconnect() {
	delay := reconnectDelay

	for {
		select {
		case <-w.done:
			return
		default:
		}

		time.Sleep(delay)

		ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
		err := w.connect(ctx)
		cancel()

		if err == nil {
			return
		}

		w.logger.Warn("websocket reconnect failed", slog.String("url", w.url), slog.Any("error", err))

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}
