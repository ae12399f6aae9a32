package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendric/steamauth/pkg/authapi"
)

func pushServer(t *testing.T, serve func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSListenerDeliversEvents(t *testing.T) {
	url := pushServer(t, func(conn *websocket.Conn) {
		require.NoError(t, conn.WriteJSON(PushEvent{
			ClientID:  100,
			GuardType: authapi.GuardTypeDeviceConfirmation,
			Confirmed: true,
		}))
		// Give the client time to read before the deferred close.
		time.Sleep(50 * time.Millisecond)
	})

	listener, err := DialPush(context.Background(), url, nil)
	require.NoError(t, err)
	defer listener.Close()

	select {
	case ev := <-listener.Events():
		assert.Equal(t, uint64(100), ev.ClientID)
		assert.Equal(t, authapi.GuardTypeDeviceConfirmation, ev.GuardType)
		assert.True(t, ev.Confirmed)
	case <-time.After(2 * time.Second):
		t.Fatal("no push event delivered")
	}
}

func TestWSListenerCloseEndsStream(t *testing.T) {
	block := make(chan struct{})
	url := pushServer(t, func(conn *websocket.Conn) {
		<-block
	})
	defer close(block)

	listener, err := DialPush(context.Background(), url, nil)
	require.NoError(t, err)
	require.NoError(t, listener.Close())

	select {
	case _, ok := <-listener.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("event channel did not close")
	}
	// A caller-initiated close is not an error.
	assert.NoError(t, listener.Err())
}

func TestDialPushFailure(t *testing.T) {
	_, err := DialPush(context.Background(), "ws://127.0.0.1:1/push", nil)
	assert.Error(t, err)
}
