package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/runwaylabs/sovereign/internal/events"
)

// WebSocketHandler streams bus events over a websocket connection for
// clients that cannot use SSE.
type WebSocketHandler struct {
	bus            *events.Bus
	originPatterns []string
	log            zerolog.Logger
}

// NewWebSocketHandler creates the websocket stream handler. originPatterns
// follows the AcceptOptions semantics; an empty slice restricts connections
// to same-origin requests.
func NewWebSocketHandler(bus *events.Bus, originPatterns []string, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		bus:            bus,
		originPatterns: originPatterns,
		log:            log.With().Str("handler", "ws_stream").Logger(),
	}
}

// HandleStream handles GET /api/events/ws.
func (h *WebSocketHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ch, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	// The stream is write-only, but control frames still need a reader:
	// CloseRead pumps incoming frames and cancels the context when the
	// client closes or drops the connection.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case event, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				h.log.Debug().Err(err).Msg("Websocket write failed, closing")
				return
			}
		}
	}
}
