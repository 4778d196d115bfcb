package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-grading-service/internal/app"
)

func TestFeedStreamsCompletionEvents(t *testing.T) {
	bus := app.NewEventBus()
	feed := NewFeedHandler(bus)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/feed", feed.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/feed"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Let the handler subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	bus.Publish(app.CompletionRecorded{UserID: "u1", QuizID: "quiz-1", Score: 5, MaxScore: 8})

	var msg feedMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "completion" {
		t.Fatalf("expected completion message, got %q", msg.Type)
	}
	if msg.Payload.QuizID != "quiz-1" || msg.Payload.Score != 5 {
		t.Fatalf("unexpected payload: %+v", msg.Payload)
	}
}
