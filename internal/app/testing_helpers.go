package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func captureStdoutFrom(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	// Drain concurrently so large outputs cannot block on a full pipe.
	var (
		output  []byte
		readErr error
		wg      sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		output, readErr = io.ReadAll(r)
	}()

	fnErr := fn()
	require.NoError(t, w.Close())
	wg.Wait()
	require.NoError(t, fnErr)
	require.NoError(t, readErr)
	return string(output)
}

// feedFrame is a frame pushed by the feed test server.
type feedFrame struct {
	binary bool
	data   []byte
}

func textFrame(s string) feedFrame { return feedFrame{data: []byte(s)} }

// feedTestServer is a WebSocket server that waits for a subscribe message, then pushes its
// frames and closes the connection normally.
type feedTestServer struct {
	wsURL     *url.URL
	subscribe <-chan string
	headers   <-chan http.Header
}

// newFeedTestServer creates a feed test server. When waitForSubscribe is false the frames
// are pushed straight after the handshake.
func newFeedTestServer(t *testing.T, waitForSubscribe bool, frames ...feedFrame) feedTestServer {
	t.Helper()

	subscribe := make(chan string, 1)
	headers := make(chan http.Header, 1)
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() {
			_ = conn.Close()
		}()

		if waitForSubscribe {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			subscribe <- string(msg)
		}

		for _, f := range frames {
			messageType := websocket.TextMessage
			if f.binary {
				messageType = websocket.BinaryMessage
			}
			if err := conn.WriteMessage(messageType, f.data); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)

	wsURL, err := url.Parse("ws" + strings.TrimPrefix(server.URL, "http"))
	require.NoError(t, err)

	return feedTestServer{wsURL: wsURL, subscribe: subscribe, headers: headers}
}

func splitLines(output string) []string {
	trimmed := strings.TrimRight(output, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
