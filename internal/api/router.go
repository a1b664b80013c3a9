package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/livesync"
	"github.com/nived-m/chathaven/internal/middleware"
	"github.com/nived-m/chathaven/internal/repository"
)

// Deps is everything the router needs, injected by main (or by a test).
// Nothing here is reached through a package-level singleton.
type Deps struct {
	Channels repository.ChannelRepository
	Rooms    repository.RoomRegistry
	Messages repository.MessageLog
	Members  repository.MembershipManager
	Settings repository.SettingsManager
	Users    repository.UserRepository

	// Store feeds the live-sync streams directly; the command
	// repositories above are write paths over the same store.
	Store docstore.Store

	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
//
// /api/* and the health check are public; every /channel/* route —
// streams included — requires a valid bearer token.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := NewUserHandler(d.Users, d.JWTSecret, d.Logger)
	apiGroup := r.Group("/api")
	apiGroup.POST("/createUser", users.Create)
	apiGroup.POST("/login", users.Login)
	apiGroup.GET("/getUserByEmail/:email", users.GetByEmail)

	channels := NewChannelHandler(d.Channels, d.Logger)
	rooms := NewRoomHandler(d.Rooms, d.Logger)
	messages := NewMessageHandler(d.Messages, d.Logger)
	members := NewMembershipHandler(d.Members, d.Logger)
	settings := NewSettingsHandler(d.Settings, d.Logger)
	streamer := livesync.NewStreamer(d.Store, d.Logger)

	ch := r.Group("/channel")
	ch.Use(middleware.AuthMiddleware(d.JWTSecret))
	ch.POST("/createChannel", channels.Create)
	ch.DELETE("/deleteChannel", channels.Delete)
	ch.GET("/getChannels", channels.List)
	ch.GET("/getMyChannels", channels.ListMine)
	ch.POST("/addRoomToChannel", rooms.Add)
	ch.DELETE("/deleteRoomFromChanel", rooms.Delete)
	ch.GET("/getRooms/:channelName", rooms.List)
	ch.POST("/addMessageToChannel", messages.Add)
	ch.GET("/getMessages/:channelName/:roomName", messages.List)
	ch.POST("/addUserToChannel", members.AddToChannel)
	ch.POST("/addUserstoRoom", members.AddToRoom)
	ch.POST("/updateSettings", settings.Update)
	ch.GET("/stream", streamer.StreamChannelList)
	ch.GET("/stream/:channelName", streamer.StreamChannel)

	return r
}
