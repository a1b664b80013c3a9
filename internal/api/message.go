package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/middleware"
	"github.com/nived-m/chathaven/internal/repository"
)

// MessageHandler serves the message append log routes.
type MessageHandler struct {
	repo   repository.MessageLog
	logger *zap.Logger
}

func NewMessageHandler(repo repository.MessageLog, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{repo: repo, logger: logger}
}

// addMessageRequest keeps the old wire field names: channelId and roomId
// are the channel and room names (names are the only identity either has).
// CreatedAt is the client-side send timestamp.
type addMessageRequest struct {
	ChannelID string    `json:"channelId" binding:"required"`
	RoomID    string    `json:"roomId" binding:"required"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content" binding:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// Add handles POST /channel/addMessageToChannel. The sender is the
// authenticated caller; a body sender naming someone else is rejected.
func (h *MessageHandler) Add(c *gin.Context) {
	var req addMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	caller := middleware.CallerEmail(c)
	if req.Sender != "" && req.Sender != caller {
		respondErr(c, h.logger, apperr.Unauthorized("sender must be the authenticated caller"))
		return
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	msg, err := h.repo.Append(c.Request.Context(), req.ChannelID, req.RoomID, caller, req.Content, createdAt)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondCreated(c, msg)
}

// List handles GET /channel/getMessages/:channelName/:roomName — all
// messages in the room, oldest first, no filtering.
func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.repo.ListByRoom(c.Request.Context(), c.Param("channelName"), c.Param("roomName"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, msgs)
}
