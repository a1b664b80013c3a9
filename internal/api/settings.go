package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/middleware"
	"github.com/nived-m/chathaven/internal/models"
	"github.com/nived-m/chathaven/internal/repository"
)

// SettingsHandler serves the settings panel's one route. The body carries
// a targetType discriminator that picks the variant; from there on the
// core works with the tagged SettingsTarget, never by probing shapes.
type SettingsHandler struct {
	repo   repository.SettingsManager
	logger *zap.Logger
}

func NewSettingsHandler(repo repository.SettingsManager, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, logger: logger}
}

type updateSettingsRequest struct {
	TargetType  string          `json:"targetType" binding:"required"`
	ChannelName string          `json:"channelName" binding:"required"`
	RoomName    string          `json:"roomName"`
	RoomType    models.RoomType `json:"roomType"`
	RemoveUser  string          `json:"removeUser"`
}

func (r updateSettingsRequest) target() (models.SettingsTarget, error) {
	switch r.TargetType {
	case "channel":
		return models.ChannelSettings{
			ChannelName: r.ChannelName,
			RemoveUser:  r.RemoveUser,
		}, nil
	case "room":
		if r.RoomName == "" {
			return nil, apperr.InvalidArgument("roomName is required for a room settings target")
		}
		return models.RoomSettings{
			ChannelName: r.ChannelName,
			RoomName:    r.RoomName,
			RoomType:    r.RoomType,
			RemoveUser:  r.RemoveUser,
		}, nil
	default:
		return nil, apperr.InvalidArgument("targetType must be \"channel\" or \"room\"")
	}
}

// Update handles POST /channel/updateSettings. Owner-gated.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	target, err := req.target()
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}

	if err := h.repo.Apply(c.Request.Context(), target, middleware.CallerEmail(c)); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, "settings updated")
}
