package documents

import (
	"context"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

// MembershipStore implements repository.MembershipManager. It performs no
// authorization itself: joining a channel or room is open to any
// authenticated caller, and the user lists it maintains are what gates
// visibility everywhere else.
type MembershipStore struct {
	store docstore.Store
}

func NewMembershipStore(store docstore.Store) *MembershipStore {
	return &MembershipStore{store: store}
}

func (s *MembershipStore) AddUserToChannel(ctx context.Context, channelName, user string) error {
	if user == "" {
		return apperr.InvalidArgument("user must not be empty")
	}
	// Top-level field, so the store's atomic append applies: no prior
	// read, safe against every concurrent writer. Duplicates are the
	// caller's problem, as they were in the original document schema.
	return s.store.AppendUser(ctx, channelName, user)
}

func (s *MembershipStore) AddUserToRoom(ctx context.Context, channelName, roomName, user string) error {
	if user == "" {
		return apperr.InvalidArgument("user must not be empty")
	}
	return s.store.Update(ctx, channelName, func(doc *models.ChannelDoc) error {
		room := doc.FindRoom(roomName)
		if room == nil {
			return apperr.NotFound("room %q not found in channel %q", roomName, channelName)
		}
		room.RoomUsers = append(room.RoomUsers, user)
		return nil
	})
}
