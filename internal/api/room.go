package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/middleware"
	"github.com/nived-m/chathaven/internal/models"
	"github.com/nived-m/chathaven/internal/repository"
)

// RoomHandler serves the room registry routes.
type RoomHandler struct {
	repo   repository.RoomRegistry
	logger *zap.Logger
}

func NewRoomHandler(repo repository.RoomRegistry, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{repo: repo, logger: logger}
}

type addRoomRequest struct {
	ChannelName string          `json:"channelName" binding:"required"`
	RoomName    string          `json:"roomName" binding:"required"`
	RoomType    models.RoomType `json:"roomType" binding:"required"`
	RoomUsers   []string        `json:"roomUsers"`
}

// Add handles POST /channel/addRoomToChannel.
func (h *RoomHandler) Add(c *gin.Context) {
	var req addRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.repo.AddRoom(c.Request.Context(), req.ChannelName, req.RoomName, req.RoomType, req.RoomUsers, middleware.CallerEmail(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondCreated(c, "room added")
}

type deleteRoomRequest struct {
	ChannelName string `json:"channelName" binding:"required"`
	RoomName    string `json:"roomName" binding:"required"`
}

// Delete handles DELETE /channel/deleteRoomFromChanel. The path keeps the
// old route's spelling; clients depend on it.
func (h *RoomHandler) Delete(c *gin.Context) {
	var req deleteRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.repo.DeleteRoom(c.Request.Context(), req.ChannelName, req.RoomName, middleware.CallerEmail(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, "room deleted")
}

// List handles GET /channel/getRooms/:channelName.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.repo.ListRooms(c.Request.Context(), c.Param("channelName"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, rooms)
}
