package documents

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore/memory"
	"github.com/nived-m/chathaven/internal/models"
)

func newChannelFixture(t *testing.T) (*ChannelStore, *RoomStore) {
	t.Helper()
	store := memory.New()
	channels := NewChannelStore(store)
	rooms := NewRoomStore(store)
	_, err := channels.Create(context.Background(), "general", alice, []string{alice, bob})
	require.NoError(t, err)
	return channels, rooms
}

func TestAddRoom(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	require.NoError(t, rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, []string{alice}, alice))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lobby", got[0].RoomName)
	assert.Equal(t, models.RoomTypeText, got[0].RoomType)
	assert.Equal(t, []string{alice}, got[0].RoomUsers)
	assert.Empty(t, got[0].Messages)
}

func TestAddRoomValidation(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	err := rooms.AddRoom(ctx, "general", "  ", models.RoomTypeText, nil, alice)
	assert.True(t, apperr.IsInvalidArgument(err))

	err = rooms.AddRoom(ctx, "general", "lobby", "video", nil, alice)
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestAddRoomRequiresOwner(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	err := rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, bob)
	require.True(t, apperr.IsUnauthorized(err))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAddRoomNameUniquePerChannel(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	require.NoError(t, rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, alice))
	err := rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeVoice, nil, alice)
	require.True(t, apperr.IsAlreadyExists(err))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RoomTypeText, got[0].RoomType)
}

func TestConcurrentAddRoomSameName(t *testing.T) {
	// Two writers racing to add the same room name: exactly one append
	// wins, the other gets the uniqueness error, never a duplicate.
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, alice)
		}(i)
	}
	wg.Wait()

	var okCount, dupCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case apperr.IsAlreadyExists(err):
			dupCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, dupCount)

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeleteRoom(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	require.NoError(t, rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, alice))
	require.NoError(t, rooms.AddRoom(ctx, "general", "den", models.RoomTypeVoice, nil, alice))

	require.NoError(t, rooms.DeleteRoom(ctx, "general", "lobby", alice))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "den", got[0].RoomName)

	assert.True(t, apperr.IsNotFound(rooms.DeleteRoom(ctx, "general", "lobby", alice)))
}

func TestDeleteRoomRequiresOwner(t *testing.T) {
	ctx := context.Background()
	_, rooms := newChannelFixture(t)

	require.NoError(t, rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, alice))
	err := rooms.DeleteRoom(ctx, "general", "lobby", bob)
	require.True(t, apperr.IsUnauthorized(err))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListRoomsMissingChannel(t *testing.T) {
	_, err := NewRoomStore(memory.New()).ListRooms(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
}
