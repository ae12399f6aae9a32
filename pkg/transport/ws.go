package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 1024
	wsPongWait        = 60 * time.Second
)

// WSListener consumes guard-completion events from a websocket endpoint and
// republishes them on a channel. It is the optional push half of the
// transport boundary; sessions work without one, falling back to pure
// polling.
type WSListener struct {
	conn   *websocket.Conn
	events chan PushEvent

	mu     sync.Mutex
	err    error
	closed bool
}

// DialPush connects to a push endpoint and starts the read loop.
func DialPush(ctx context.Context, rawURL string, header http.Header) (*WSListener, error) {
	dialer := websocket.Dialer{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
	}
	conn, _, err := dialer.DialContext(ctx, rawURL, header)
	if err != nil {
		return nil, err
	}

	l := &WSListener{
		conn:   conn,
		events: make(chan PushEvent, 8),
	}
	go l.readLoop()
	return l, nil
}

// Events returns the push event stream. The channel is closed when the
// connection drops or Close is called.
func (l *WSListener) Events() <-chan PushEvent {
	return l.events
}

// Err reports why the event stream ended, nil for a clean Close.
func (l *WSListener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close tears down the connection; the event channel closes shortly after.
func (l *WSListener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.conn.Close()
}

func (l *WSListener) readLoop() {
	defer close(l.events)

	l.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var ev PushEvent
		if err := l.conn.ReadJSON(&ev); err != nil {
			l.mu.Lock()
			if !l.closed {
				l.err = err
			}
			l.mu.Unlock()
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("push listener closed unexpectedly", "err", err)
			}
			return
		}
		slog.Debug("push event received",
			"clientID", ev.ClientID,
			"guardType", ev.GuardType,
			"confirmed", ev.Confirmed)
		l.events <- ev
	}
}
