package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/runwaylabs/sovereign/internal/events"
)

func newWSTestServer(t *testing.T) (*events.Bus, *httptest.Server) {
	t.Helper()

	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus(log)
	handler := NewWebSocketHandler(bus, []string{"*"}, log)

	r := chi.NewRouter()
	r.Get("/ws", handler.HandleStream)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return bus, ts
}

func TestWebSocketStreamDeliversPublishedEvents(t *testing.T) {
	bus, ts := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, ts.URL+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return bus.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	bus.Publish(&events.SnapshotRecordedData{
		Wallet: "WALLET1",
		Ratio:  4.2,
		Status: "Robust",
	})

	var event struct {
		Type string `json:"type"`
		Data struct {
			Wallet string  `json:"wallet"`
			Ratio  float64 `json:"ratio"`
			Status string  `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, wsjson.Read(ctx, conn, &event))

	assert.Equal(t, "snapshot_recorded", event.Type)
	assert.Equal(t, "WALLET1", event.Data.Wallet)
	assert.InDelta(t, 4.2, event.Data.Ratio, 0.0001)
	assert.Equal(t, "Robust", event.Data.Status)
}

func TestWebSocketStreamUnsubscribesOnClientClose(t *testing.T) {
	bus, ts := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, ts.URL+"/ws", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bus.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A graceful close must be acknowledged by the handler and release
	// the bus subscription even when no further events are published.
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	require.Eventually(t, func() bool {
		return bus.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketStreamUnsubscribesOnDroppedConnection(t *testing.T) {
	bus, ts := newWSTestServer(t)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()

	conn, _, err := websocket.Dial(dialCtx, ts.URL+"/ws", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bus.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Abrupt drop without a close handshake.
	conn.CloseNow()

	require.Eventually(t, func() bool {
		return bus.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
