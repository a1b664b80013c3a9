package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/repository"
)

// MembershipHandler serves the user-list routes.
type MembershipHandler struct {
	repo   repository.MembershipManager
	logger *zap.Logger
}

func NewMembershipHandler(repo repository.MembershipManager, logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{repo: repo, logger: logger}
}

type addUserToChannelRequest struct {
	ChannelName string `json:"channelName" binding:"required"`
	UserToAdd   string `json:"userToAdd" binding:"required"`
}

// AddToChannel handles POST /channel/addUserToChannel.
func (h *MembershipHandler) AddToChannel(c *gin.Context) {
	var req addUserToChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.repo.AddUserToChannel(c.Request.Context(), req.ChannelName, req.UserToAdd)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, "user added to channel")
}

type addUserToRoomRequest struct {
	ChannelName string `json:"channelName" binding:"required"`
	RoomName    string `json:"roomName" binding:"required"`
	UserToAdd   string `json:"userToAdd" binding:"required"`
}

// AddToRoom handles POST /channel/addUserstoRoom (old route spelling kept).
func (h *MembershipHandler) AddToRoom(c *gin.Context) {
	var req addUserToRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.repo.AddUserToRoom(c.Request.Context(), req.ChannelName, req.RoomName, req.UserToAdd)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, "user added to room")
}
