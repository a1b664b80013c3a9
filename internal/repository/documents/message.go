package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

// MessageStore implements repository.MessageLog.
//
// Appending is a serialized read-modify-write of the whole channel
// document: the store's array-append primitive only reaches top-level
// fields, not a message list nested inside the rooms array. Because the
// store serializes writers per channel, two near-simultaneous appends to
// different rooms of the same channel both land.
type MessageStore struct {
	store docstore.Store
}

func NewMessageStore(store docstore.Store) *MessageStore {
	return &MessageStore{store: store}
}

func (s *MessageStore) Append(ctx context.Context, channelName, roomName, sender, content string, createdAt time.Time) (*models.Message, error) {
	if sender == "" {
		return nil, apperr.InvalidArgument("message sender must not be empty")
	}

	msg := models.Message{
		ID:        uuid.New(),
		Sender:    sender,
		Content:   content,
		CreatedAt: createdAt,
	}

	err := s.store.Update(ctx, channelName, func(doc *models.ChannelDoc) error {
		room := doc.FindRoom(roomName)
		if room == nil {
			return apperr.NotFound("room %q not found in channel %q", roomName, channelName)
		}
		room.Messages = append(room.Messages, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *MessageStore) ListByRoom(ctx context.Context, channelName, roomName string) ([]models.Message, error) {
	doc, err := s.store.Get(ctx, channelName)
	if err != nil {
		return nil, err
	}
	room := doc.FindRoom(roomName)
	if room == nil {
		return nil, apperr.NotFound("room %q not found in channel %q", roomName, channelName)
	}
	if room.Messages == nil {
		return []models.Message{}, nil
	}
	return room.Messages, nil
}
