package repository

import (
	"context"
	"time"

	"github.com/nived-m/chathaven/internal/models"
)

// Every method takes a context because every method crosses an I/O
// boundary into the document store.
//
// Owner-gated operations take the authenticated caller's identity and
// verify it against the channel's owner server-side; the UI hiding a
// button is not authorization.

// ChannelRepository owns the lifecycle of channel documents.
type ChannelRepository interface {
	// Create makes a new channel document with empty rooms and the given
	// initial user list. The name is trimmed first and becomes both the
	// document key and the channelName field. InvalidArgument on an
	// empty name, AlreadyExists on a key collision.
	Create(ctx context.Context, name, owner string, initialUsers []string) (*models.ChannelDoc, error)

	// Delete removes the whole channel document, cascading to all
	// embedded rooms and messages. Owner-gated.
	Delete(ctx context.Context, name, caller string) error

	// Get returns the whole channel document.
	Get(ctx context.Context, name string) (*models.ChannelDoc, error)

	// ListNames returns every channel name, unfiltered.
	ListNames(ctx context.Context) ([]string, error)

	// ListForUser returns the channels whose user list contains user —
	// membership is the sole visibility predicate.
	ListForUser(ctx context.Context, user string) ([]models.ChannelDoc, error)
}

// RoomRegistry owns creation and deletion of rooms nested in a channel.
type RoomRegistry interface {
	// AddRoom appends a room to the channel. Room names are unique
	// within a channel. Owner-gated.
	AddRoom(ctx context.Context, channelName, roomName string, roomType models.RoomType, roomUsers []string, caller string) error

	// DeleteRoom removes the first room matching roomName. Owner-gated.
	DeleteRoom(ctx context.Context, channelName, roomName, caller string) error

	// ListRooms returns all rooms of a channel in insertion order.
	ListRooms(ctx context.Context, channelName string) ([]models.Room, error)
}

// MessageLog appends messages into rooms. Messages are never edited,
// deleted or reordered.
type MessageLog interface {
	// Append adds a message at the tail of the room's message list and
	// returns it with its server-assigned ID.
	Append(ctx context.Context, channelName, roomName, sender, content string, createdAt time.Time) (*models.Message, error)

	// ListByRoom returns every message of the room, oldest first. No
	// filtering — room visibility is gated by membership before read.
	ListByRoom(ctx context.Context, channelName, roomName string) ([]models.Message, error)
}

// MembershipManager maintains the channel and room user lists.
type MembershipManager interface {
	// AddUserToChannel appends user to the channel's user list.
	// Duplicates are not checked; that is the caller's responsibility.
	AddUserToChannel(ctx context.Context, channelName, user string) error

	// AddUserToRoom appends user to the named room's user list.
	AddUserToRoom(ctx context.Context, channelName, roomName, user string) error
}

// SettingsManager applies channel- or room-level settings changes.
type SettingsManager interface {
	// Apply mutates the target described by the tagged variant.
	// Owner-gated for both cases.
	Apply(ctx context.Context, target models.SettingsTarget, caller string) error
}

// UserRepository handles user profile storage at the system's identity
// boundary.
type UserRepository interface {
	// Create inserts a new profile. AlreadyExists if the email is taken.
	Create(ctx context.Context, email, displayName, passwordHash string) (*models.User, error)

	// GetByEmail returns nil, nil when no profile matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
