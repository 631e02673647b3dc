package monitoring

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialFeed(t *testing.T, feed *Feed) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(feed.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeedBroadcastsPredictions(t *testing.T) {
	feed := NewFeed()
	go feed.Run()
	defer feed.Stop()

	conn := dialFeed(t, feed)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	event := PredictionEvent{
		PredictedCGPA: 3.25,
		CGPARange:     "Good (3.00 - 3.49)",
		Course:        "Engineering",
		Timestamp:     time.Now().UTC(),
	}

	// Registration races the first publish; keep publishing until the
	// subscriber sees a message.
	received := make(chan []byte, 1)
	go func() {
		if _, msg, err := conn.ReadMessage(); err == nil {
			received <- msg
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-received:
			var got PredictionEvent
			if err := json.Unmarshal(msg, &got); err != nil {
				t.Fatalf("invalid event payload: %v", err)
			}
			if got.CGPARange != event.CGPARange || got.PredictedCGPA != event.PredictedCGPA {
				t.Fatalf("unexpected event: %+v", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for broadcast")
		default:
			feed.Publish(event)
			time.Sleep(20 * time.Millisecond)
		}
	}
}

func TestFeedHandleWSAfterStop(t *testing.T) {
	feed := NewFeed()
	go feed.Run()
	feed.Stop()

	// The hub loop is gone; the subscription must be refused by closing
	// the connection, not by parking the handler goroutine forever.
	conn := dialFeed(t, feed)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("expected the connection to be closed")
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		t.Fatal("connection left open after hub stop")
	}
}
