package documents

import (
	"context"
	"strings"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

// RoomStore implements repository.RoomRegistry.
type RoomStore struct {
	store docstore.Store
}

func NewRoomStore(store docstore.Store) *RoomStore {
	return &RoomStore{store: store}
}

func (s *RoomStore) AddRoom(ctx context.Context, channelName, roomName string, roomType models.RoomType, roomUsers []string, caller string) error {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		return apperr.InvalidArgument("room name must not be empty")
	}
	if !roomType.Valid() {
		return apperr.InvalidArgument("room type must be %q or %q", models.RoomTypeText, models.RoomTypeVoice)
	}

	// The update is serialized per channel, so checking uniqueness here
	// and appending in the same mutate is race-free. The append never
	// touches existing rooms.
	return s.store.Update(ctx, channelName, func(doc *models.ChannelDoc) error {
		if doc.Owner != caller {
			return apperr.Unauthorized("only the owner of channel %q may add rooms", channelName)
		}
		if doc.FindRoom(roomName) != nil {
			return apperr.AlreadyExists("room %q already exists in channel %q", roomName, channelName)
		}
		doc.Rooms = append(doc.Rooms, models.Room{
			RoomName:  roomName,
			RoomType:  roomType,
			RoomUsers: append([]string{}, roomUsers...),
			Messages:  []models.Message{},
		})
		return nil
	})
}

func (s *RoomStore) DeleteRoom(ctx context.Context, channelName, roomName, caller string) error {
	return s.store.Update(ctx, channelName, func(doc *models.ChannelDoc) error {
		if doc.Owner != caller {
			return apperr.Unauthorized("only the owner of channel %q may delete rooms", channelName)
		}
		for i := range doc.Rooms {
			if doc.Rooms[i].RoomName == roomName {
				doc.Rooms = append(doc.Rooms[:i], doc.Rooms[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("room %q not found in channel %q", roomName, channelName)
	})
}

func (s *RoomStore) ListRooms(ctx context.Context, channelName string) ([]models.Room, error) {
	doc, err := s.store.Get(ctx, channelName)
	if err != nil {
		return nil, err
	}
	if doc.Rooms == nil {
		return []models.Room{}, nil
	}
	return doc.Rooms, nil
}
