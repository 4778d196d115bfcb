package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-grading-service/internal/app"
)

// FeedHandler streams grading events over a websocket, one JSON message per
// recorded completion. The stream is one-way; inbound frames are drained only
// to observe the close.
type FeedHandler struct {
	events   *app.EventBus
	upgrader websocket.Upgrader
}

func NewFeedHandler(events *app.EventBus) *FeedHandler {
	return &FeedHandler{
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type feedMessage struct {
	Type    string                 `json:"type"`
	Payload app.CompletionRecorded `json:"payload"`
}

func (h *FeedHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.events.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(feedMessage{Type: "completion", Payload: event}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
