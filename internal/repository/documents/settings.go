package documents

import (
	"context"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

// SettingsStore implements repository.SettingsManager with an exhaustive
// switch over the SettingsTarget variant.
type SettingsStore struct {
	store docstore.Store
}

func NewSettingsStore(store docstore.Store) *SettingsStore {
	return &SettingsStore{store: store}
}

func (s *SettingsStore) Apply(ctx context.Context, target models.SettingsTarget, caller string) error {
	return s.store.Update(ctx, target.Channel(), func(doc *models.ChannelDoc) error {
		if doc.Owner != caller {
			return apperr.Unauthorized("only the owner of channel %q may change settings", doc.ChannelName)
		}

		switch t := target.(type) {
		case models.ChannelSettings:
			return applyChannelSettings(doc, t)
		case models.RoomSettings:
			return applyRoomSettings(doc, t)
		default:
			// The variant is sealed; a new case must be added here.
			return apperr.InvalidArgument("unknown settings target %T", target)
		}
	})
}

func applyChannelSettings(doc *models.ChannelDoc, t models.ChannelSettings) error {
	if t.RemoveUser != "" {
		doc.Users = removeFirst(doc.Users, t.RemoveUser)
	}
	return nil
}

func applyRoomSettings(doc *models.ChannelDoc, t models.RoomSettings) error {
	room := doc.FindRoom(t.RoomName)
	if room == nil {
		return apperr.NotFound("room %q not found in channel %q", t.RoomName, doc.ChannelName)
	}
	if t.RoomType != "" {
		if !t.RoomType.Valid() {
			return apperr.InvalidArgument("room type must be %q or %q", models.RoomTypeText, models.RoomTypeVoice)
		}
		room.RoomType = t.RoomType
	}
	if t.RemoveUser != "" {
		room.RoomUsers = removeFirst(room.RoomUsers, t.RemoveUser)
	}
	return nil
}

func removeFirst(users []string, user string) []string {
	for i, u := range users {
		if u == user {
			return append(users[:i], users[i+1:]...)
		}
	}
	return users
}
