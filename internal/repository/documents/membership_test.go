package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore/memory"
	"github.com/nived-m/chathaven/internal/models"
)

func TestAddUserToChannelGrantsVisibility(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	channels := NewChannelStore(store)
	members := NewMembershipStore(store)

	_, err := channels.Create(ctx, "general", alice, []string{alice})
	require.NoError(t, err)

	before, err := channels.ListForUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, before)

	require.NoError(t, members.AddUserToChannel(ctx, "general", bob))

	after, err := channels.ListForUser(ctx, bob)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "general", after[0].ChannelName)
}

func TestAddUserToChannelAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	channels := NewChannelStore(store)
	members := NewMembershipStore(store)

	_, err := channels.Create(ctx, "general", alice, nil)
	require.NoError(t, err)

	require.NoError(t, members.AddUserToChannel(ctx, "general", bob))
	require.NoError(t, members.AddUserToChannel(ctx, "general", bob))

	doc, err := channels.Get(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, []string{bob, bob}, doc.Users)
}

func TestAddUserToChannelValidation(t *testing.T) {
	ctx := context.Background()
	members := NewMembershipStore(memory.New())

	assert.True(t, apperr.IsInvalidArgument(members.AddUserToChannel(ctx, "general", "")))
	assert.True(t, apperr.IsNotFound(members.AddUserToChannel(ctx, "nope", bob)))
}

func TestAddUserToRoom(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	channels := NewChannelStore(store)
	rooms := NewRoomStore(store)
	members := NewMembershipStore(store)

	_, err := channels.Create(ctx, "general", alice, []string{alice})
	require.NoError(t, err)
	require.NoError(t, rooms.AddRoom(ctx, "general", "lobby", models.RoomTypeText, nil, alice))

	require.NoError(t, members.AddUserToRoom(ctx, "general", "lobby", bob))

	got, err := rooms.ListRooms(ctx, "general")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{bob}, got[0].RoomUsers)
}

func TestAddUserToRoomValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	channels := NewChannelStore(store)
	members := NewMembershipStore(store)

	_, err := channels.Create(ctx, "general", alice, nil)
	require.NoError(t, err)

	assert.True(t, apperr.IsInvalidArgument(members.AddUserToRoom(ctx, "general", "lobby", "")))
	assert.True(t, apperr.IsNotFound(members.AddUserToRoom(ctx, "general", "nope", bob)))
	assert.True(t, apperr.IsNotFound(members.AddUserToRoom(ctx, "nope", "lobby", bob)))
}
