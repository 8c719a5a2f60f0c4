package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestPeer starts a WebSocket endpoint that runs peer on the server side
// and returns a WebSocketClient connected to it.
func dialTestPeer(t *testing.T, peer func(conn *websocket.Conn)) *WebSocketClient {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		peer(conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewWebSocketClient(conn)
}

func TestWebSocketClient_ReadLine_SkipsEmptyMessages(t *testing.T) {
	client := dialTestPeer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(""))
		conn.WriteMessage(websocket.TextMessage, []byte("   "))
		conn.WriteMessage(websocket.TextMessage, []byte("\n\n\n"))
		conn.WriteMessage(websocket.TextMessage, []byte("roll 3D6"))
		time.Sleep(100 * time.Millisecond)
	})

	line, err := client.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "roll 3D6" {
		t.Errorf("ReadLine() = %q, want %q", line, "roll 3D6")
	}
}

func TestWebSocketClient_ReadLine_MultiLineMessage(t *testing.T) {
	client := dialTestPeer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("roll 1D6\r\n  check 50 hard \nquit"))
		time.Sleep(100 * time.Millisecond)
	})

	for _, want := range []string{"roll 1D6", "check 50 hard", "quit"} {
		line, err := client.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine() = %q, want %q", line, want)
		}
	}
}

func TestWebSocketClient_WriteLine(t *testing.T) {
	received := make(chan string, 1)
	client := dialTestPeer(t, func(conn *websocket.Conn) {
		if _, msg, err := conn.ReadMessage(); err == nil {
			received <- string(msg)
		}
	})

	if err := client.WriteLine("3D6 → [1 2 3] +0 = 6"); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg != "3D6 → [1 2 3] +0 = 6" {
			t.Errorf("peer received %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for message")
	}

	if client.RemoteAddr() == "" {
		t.Error("RemoteAddr should not be empty")
	}
}
