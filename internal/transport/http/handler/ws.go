package handler

import (
	"net/http"

	"github.com/callme-api/internal/bus"
	"github.com/gorilla/websocket"
)

// WSHandler bridges broker subscriptions onto WebSocket connections. Each
// connection gets its own subscription; the subscription is dropped when the
// client disconnects or falls too far behind the broker.
type WSHandler struct {
	broker   *bus.Broker
	upgrader websocket.Upgrader
}

func NewWSHandler(broker *bus.Broker) *WSHandler {
	return &WSHandler{
		broker: broker,
		upgrader: websocket.Upgrader{
			// Origin is enforced by the CORS layer on the regular endpoints;
			// the socket itself accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer conn.Close()

	id, events := h.broker.Subscribe()
	defer h.broker.Unsubscribe(id)

	// Inbound frames are ignored; the read loop only detects disconnects.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				// Pruned by the broker as a slow consumer.
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-disconnected:
			return
		}
	}
}
