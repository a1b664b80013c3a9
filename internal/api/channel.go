package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/middleware"
	"github.com/nived-m/chathaven/internal/repository"
)

// ChannelHandler serves the channel lifecycle routes.
type ChannelHandler struct {
	repo   repository.ChannelRepository
	logger *zap.Logger
}

func NewChannelHandler(repo repository.ChannelRepository, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{repo: repo, logger: logger}
}

type createChannelRequest struct {
	ChannelName string   `json:"channelName" binding:"required"`
	Owner       string   `json:"owner"`
	Users       []string `json:"users"`
}

// Create handles POST /channel/createChannel.
//
// The owner is the authenticated caller. The body's owner field survives
// from the old wire format; when present it must match the caller —
// creating a channel owned by someone else is not a thing.
func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	caller := middleware.CallerEmail(c)
	if req.Owner != "" && req.Owner != caller {
		respondErr(c, h.logger, apperr.Unauthorized("owner must be the authenticated caller"))
		return
	}

	doc, err := h.repo.Create(c.Request.Context(), req.ChannelName, caller, req.Users)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondCreated(c, doc)
}

type deleteChannelRequest struct {
	ChannelName string `json:"channelName" binding:"required"`
}

// Delete handles DELETE /channel/deleteChannel. Owner-gated; the whole
// document goes, rooms and messages with it.
func (h *ChannelHandler) Delete(c *gin.Context) {
	var req deleteChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.repo.Delete(c.Request.Context(), req.ChannelName, middleware.CallerEmail(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, "channel deleted")
}

// List handles GET /channel/getChannels: every channel name, unfiltered.
// Membership filtering is a view concern applied by the client.
func (h *ChannelHandler) List(c *gin.Context) {
	names, err := h.repo.ListNames(c.Request.Context())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, names)
}

// ListMine handles GET /channel/getMyChannels: only the channels whose
// user list contains the caller.
func (h *ChannelHandler) ListMine(c *gin.Context) {
	docs, err := h.repo.ListForUser(c.Request.Context(), middleware.CallerEmail(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, docs)
}
