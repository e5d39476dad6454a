package testclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/mazegen/internal/server"
)

// TestClient is a WebSocket session against a running maze service.
type TestClient struct {
	Name      string
	conn      *websocket.Conn
	responses []server.Response
	mu        sync.Mutex
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewTestClient opens a session on ws://address/ws.
func NewTestClient(name string, address string) (*TestClient, error) {
	address = strings.TrimPrefix(strings.TrimPrefix(address, "http://"), "ws://")
	url := "ws://" + address + "/ws"

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name: name,
		conn: conn,
	}

	go client.readMessages()

	return client, nil
}

// CheckHealth reports whether the service answers "ok" on /healthz.
func CheckHealth(address string, timeout time.Duration) error {
	address = strings.TrimPrefix(address, "http://")
	hc := &http.Client{Timeout: timeout}
	resp, err := hc.Get("http://" + address + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// readMessages buffers every response until the connection drops.
func (c *TestClient) readMessages() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var resp server.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}
		c.mu.Lock()
		c.responses = append(c.responses, resp)
		c.mu.Unlock()
	}
}

// Send writes one request.
func (c *TestClient) Send(req server.Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

// SendRaw writes text as-is, which lets scenarios send malformed requests.
func (c *TestClient) SendRaw(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Generate sends req and waits for the next response.
func (c *TestClient) Generate(req server.Request, timeout time.Duration) (server.Response, error) {
	c.ClearResponses()
	if err := c.Send(req); err != nil {
		return server.Response{}, fmt.Errorf("send: %w", err)
	}
	resp, ok := c.WaitForResponse(timeout)
	if !ok {
		return server.Response{}, fmt.Errorf("no response within %v", timeout)
	}
	return resp, nil
}

// ClearResponses empties the buffer.
func (c *TestClient) ClearResponses() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = nil
}

// WaitForResponse waits for the first buffered response and removes it.
func (c *TestClient) WaitForResponse(timeout time.Duration) (server.Response, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.responses) > 0 {
			resp := c.responses[0]
			c.responses = c.responses[1:]
			c.mu.Unlock()
			return resp, true
		}
		c.mu.Unlock()
		time.Sleep(20 * time.Millisecond)
	}

	return server.Response{}, false
}

// Close sends a close frame and drops the connection.
func (c *TestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

