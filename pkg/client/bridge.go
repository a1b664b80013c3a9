package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nived-m/chathaven/internal/livesync"
)

// Bridge consumes one of the server's snapshot streams and projects every
// frame into a StateStore. It does not retry: when the stream fails, Done
// closes and Err reports why, and reconnecting is the caller's policy.
type Bridge struct {
	conn  *websocket.Conn
	state *StateStore

	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	err     error
	closing bool
}

// DialChannelList subscribes to the channel-collection stream.
func (c *Client) DialChannelList(ctx context.Context, state *StateStore) (*Bridge, error) {
	return c.dial(ctx, "/channel/stream", state)
}

// DialChannel subscribes to a single channel's stream.
func (c *Client) DialChannel(ctx context.Context, channelName string, state *StateStore) (*Bridge, error) {
	return c.dial(ctx, "/channel/stream/"+url.PathEscape(channelName), state)
}

func (c *Client) dial(ctx context.Context, path string, state *StateStore) (*Bridge, error) {
	wsURL, err := websocketURL(c.baseURL, path, c.token)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Message: "stream handshake rejected"}
		}
		return nil, fmt.Errorf("dial stream: %w", err)
	}

	b := &Bridge{
		conn:  conn,
		state: state,
		done:  make(chan struct{}),
	}
	go b.run()
	return b, nil
}

func (b *Bridge) run() {
	defer close(b.done)
	defer b.conn.Close()

	for {
		var frame livesync.Frame
		if err := b.conn.ReadJSON(&frame); err != nil {
			b.setErr(fmt.Errorf("read stream: %w", err))
			return
		}
		switch frame.Type {
		case "snapshot":
			if frame.Channels != nil {
				b.state.SetChannels(frame.Channels)
			} else if frame.Channel != nil {
				b.state.ApplyChannel(*frame.Channel)
			}
		case "error":
			b.setErr(fmt.Errorf("stream error: %s", frame.Error))
			return
		}
	}
}

// Done closes when the stream ends, for any reason.
func (b *Bridge) Done() <-chan struct{} { return b.done }

// Err reports why the stream ended; nil after a clean Close.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Close tears the stream down. Idempotent; a stream ended by Close
// reports a nil Err.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closing = true
		b.mu.Unlock()
		b.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		b.conn.Close()
	})
	return nil
}

func (b *Bridge) setErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closing || b.err != nil {
		return
	}
	b.err = err
}

func websocketURL(baseURL, path, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
