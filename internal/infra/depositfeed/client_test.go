package depositfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gabapcia/depositwatch/internal/depositcredit"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

var upgrader = websocket.Upgrader{}

// newFeedServer starts a websocket server that pushes the given deposits on
// every connection and returns its ws:// base URI.
func newFeedServer(t *testing.T, deposits ...depositcredit.Deposit) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/ws/"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, deposit := range deposits {
			if err := conn.WriteJSON(deposit); err != nil {
				return
			}
		}

		// Keep the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSubscribe(t *testing.T) {
	t.Run("forwards deposit frames in order", func(t *testing.T) {
		uri := newFeedServer(t,
			depositcredit.Deposit{FromAddress: "wallet-1", Amount: 2.5},
			depositcredit.Deposit{FromAddress: "wallet-2", Amount: 1},
		)

		c := NewClient(uri)

		deposits, err := c.Subscribe(t.Context(), "acct")
		require.NoError(t, err)

		for _, want := range []depositcredit.Deposit{
			{FromAddress: "wallet-1", Amount: 2.5},
			{FromAddress: "wallet-2", Amount: 1},
		} {
			select {
			case got := <-deposits:
				assert.Equal(t, want, got)
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for deposit")
			}
		}
	})

	t.Run("unreachable feed fails the subscription", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))

		deposits, err := c.Subscribe(t.Context(), "acct")

		require.Error(t, err)
		assert.Nil(t, deposits)
	})

	t.Run("cancellation closes the deposit channel", func(t *testing.T) {
		uri := newFeedServer(t)

		c := NewClient(uri)

		ctx, cancel := context.WithCancel(t.Context())
		deposits, err := c.Subscribe(ctx, "acct")
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-deposits:
			assert.False(t, ok, "channel should be closed after cancellation")
		case <-time.After(2 * time.Second):
			t.Fatal("deposit channel was not closed after cancellation")
		}
	})

	t.Run("server shutdown closes the deposit channel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			conn.Close()
		}))
		t.Cleanup(srv.Close)

		c := NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))

		deposits, err := c.Subscribe(t.Context(), "acct")
		require.NoError(t, err)

		select {
		case _, ok := <-deposits:
			assert.False(t, ok, "channel should be closed after the server hangs up")
		case <-time.After(2 * time.Second):
			t.Fatal("deposit channel was not closed after the server hung up")
		}
	})
}
