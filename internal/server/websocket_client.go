package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// wsClient is one maze session: JSON requests in, JSON responses out.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newWSClient(conn *websocket.Conn, maxMessageSize int64) *wsClient {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &wsClient{conn: conn}
}

// ReadRequest blocks until the next non-blank message and decodes it.
// A malformed message returns a decode error; the connection stays usable.
func (c *wsClient) ReadRequest() (Request, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Request{}, err
		}

		message = bytes.TrimSpace(message)
		if len(message) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			return Request{}, &decodeError{err: err}
		}
		return req, nil
	}
}

// Send writes v as a single JSON text message.
func (c *wsClient) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Close sends a normal close frame and closes the socket.
func (c *wsClient) Close() error {
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// decodeError marks a request that was read but could not be parsed.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}
