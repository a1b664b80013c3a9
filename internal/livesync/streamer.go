// Package livesync exposes the document store's change subscriptions over
// websockets. Each frame carries a complete snapshot — a full replacement,
// never a diff — matching what the store's Watch streams emit.
package livesync

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

const writeTimeout = 10 * time.Second

// Frame is one websocket message. Type is "snapshot" or "error"; a
// snapshot frame carries either one channel document or the whole
// collection depending on which stream the client opened.
type Frame struct {
	Type     string              `json:"type"`
	Version  int64               `json:"version,omitempty"`
	Channel  *models.ChannelDoc  `json:"channel,omitempty"`
	Channels []models.ChannelDoc `json:"channels,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Streamer bridges store watches onto websocket connections.
type Streamer struct {
	store    docstore.Store
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamer(store docstore.Store, logger *zap.Logger) *Streamer {
	return &Streamer{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The REST layer already runs permissive CORS; the upgrade
			// request carries the same bearer token as every other call.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// StreamChannel handles GET /channel/stream/:channelName — one document's
// snapshot stream.
func (s *Streamer) StreamChannel(c *gin.Context) {
	name := c.Param("channelName")

	stream, err := s.store.Watch(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		stream.Cancel()
		return
	}

	pump(conn, s.logger, stream.Updates(), stream.Errs(), stream.Cancel, func(snap docstore.Snapshot) Frame {
		doc := snap.Doc
		return Frame{Type: "snapshot", Version: snap.Version, Channel: &doc}
	})
}

// StreamChannelList handles GET /channel/stream — the collection stream.
func (s *Streamer) StreamChannelList(c *gin.Context) {
	stream, err := s.store.WatchAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		stream.Cancel()
		return
	}

	pump(conn, s.logger, stream.Updates(), stream.Errs(), stream.Cancel, func(snap docstore.ListSnapshot) Frame {
		return Frame{Type: "snapshot", Version: snap.Version, Channels: snap.Docs}
	})
}

// readUntilClosed notices the peer's close handshake; clients have
// nothing to say on these streams, so every read result except an error
// is discarded.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}

// pump forwards snapshots until the watch ends or the peer goes away.
func pump[T any](conn *websocket.Conn, logger *zap.Logger, updates <-chan T, errs <-chan error, cancel func(), frame func(T) Frame) {
	defer conn.Close()
	defer cancel()

	peerGone := readUntilClosed(conn)

	for {
		select {
		case <-peerGone:
			return
		case err := <-errs:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteJSON(Frame{Type: "error", Error: err.Error()})
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(frame(snap)); err != nil {
				logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
