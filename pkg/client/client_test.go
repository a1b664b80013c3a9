package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/api"
	"github.com/nived-m/chathaven/internal/docstore/memory"
	"github.com/nived-m/chathaven/internal/models"
	"github.com/nived-m/chathaven/internal/repository/documents"
	repomemory "github.com/nived-m/chathaven/internal/repository/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	router := api.NewRouter(api.Deps{
		Channels:  documents.NewChannelStore(store),
		Rooms:     documents.NewRoomStore(store),
		Messages:  documents.NewMessageStore(store),
		Members:   documents.NewMembershipStore(store),
		Settings:  documents.NewSettingsStore(store),
		Users:     repomemory.NewUserStore(),
		Store:     store,
		JWTSecret: "client-test-secret",
		Logger:    zap.NewNop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestCommandRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "")

	require.NoError(t, c.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))
	require.NotEmpty(t, c.Token())

	doc, err := c.CreateChannel(ctx, "general", []string{"alice@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", doc.Owner)

	require.NoError(t, c.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil))

	msg, err := c.SendMessage(ctx, "general", "lobby", "hello")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", msg.Sender)

	msgs, err := c.Messages(ctx, "general", "lobby")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	names, err := c.Channels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"general"}, names)

	mine, err := c.MyChannels(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "general", mine[0].ChannelName)
}

func TestErrorsSurfaceStatusCodes(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "")

	require.NoError(t, c.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))
	_, err := c.CreateChannel(ctx, "general", nil)
	require.NoError(t, err)

	_, err = c.CreateChannel(ctx, "general", nil)
	assert.True(t, IsStatus(err, http.StatusConflict), "got: %v", err)

	err = c.DeleteChannel(ctx, "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound), "got: %v", err)

	anon := New(srv.URL, "")
	_, err = anon.Channels(ctx)
	assert.True(t, IsStatus(err, http.StatusUnauthorized), "got: %v", err)
}

func TestAuthenticateAfterSignup(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	signup := New(srv.URL, "")
	require.NoError(t, signup.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))

	c := New(srv.URL, "")
	require.NoError(t, c.Authenticate(ctx, "alice@x.com", "hunter2hunter2"))
	require.NotEmpty(t, c.Token())

	err := c.Authenticate(ctx, "alice@x.com", "wrong-password")
	assert.True(t, IsStatus(err, http.StatusUnauthorized), "got: %v", err)
}

func TestChannelListBridge(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "")

	require.NoError(t, c.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))
	_, err := c.CreateChannel(ctx, "general", []string{"alice@x.com"})
	require.NoError(t, err)

	state := NewStateStore()
	bridge, err := c.DialChannelList(ctx, state)
	require.NoError(t, err)
	defer bridge.Close()

	// The initial snapshot already carries the pre-existing channel.
	require.Eventually(t, func() bool {
		return len(state.Channels()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// A write after subscribing shows up through the stream.
	require.NoError(t, c.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil))
	_, err = c.SendMessage(ctx, "general", "lobby", "hello")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		chans := state.Channels()
		if len(chans) != 1 {
			return false
		}
		room := chans[0].FindRoom("lobby")
		return room != nil && len(room.Messages) == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.True(t, state.SelectChannel("general"))
	require.True(t, state.SelectRoom("lobby"))
	msgs := state.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	// Close is idempotent and a clean close reports no error.
	require.NoError(t, bridge.Close())
	require.NoError(t, bridge.Close())
	select {
	case <-bridge.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("bridge did not shut down")
	}
	assert.NoError(t, bridge.Err())
}

func TestChannelBridgeObservesMembershipChange(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "")

	require.NoError(t, c.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))
	_, err := c.CreateChannel(ctx, "general", []string{"alice@x.com"})
	require.NoError(t, err)

	state := NewStateStore()
	bridge, err := c.DialChannel(ctx, "general", state)
	require.NoError(t, err)
	defer bridge.Close()

	require.NoError(t, c.AddUserToChannel(ctx, "general", "bob@x.com"))

	require.Eventually(t, func() bool {
		chans := state.ChannelsFor("bob@x.com")
		return len(chans) == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestChannelBridgeEndsWhenChannelDeleted(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "")

	require.NoError(t, c.CreateUser(ctx, "alice@x.com", "hunter2hunter2", "Alice"))
	_, err := c.CreateChannel(ctx, "doomed", []string{"alice@x.com"})
	require.NoError(t, err)

	state := NewStateStore()
	bridge, err := c.DialChannel(ctx, "doomed", state)
	require.NoError(t, err)

	require.NoError(t, c.DeleteChannel(ctx, "doomed"))

	select {
	case <-bridge.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("bridge did not observe the deletion")
	}
	assert.Error(t, bridge.Err())
}

func TestDialRejectsBadToken(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := New(srv.URL, "not-a-token")

	_, err := c.DialChannelList(ctx, NewStateStore())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized), "got: %v", err)
}
