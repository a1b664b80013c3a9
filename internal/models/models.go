package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomType distinguishes text rooms from voice rooms. These are the only
// two kinds a channel may contain.
type RoomType string

const (
	RoomTypeText  RoomType = "text"
	RoomTypeVoice RoomType = "voice"
)

// Valid reports whether t is one of the known room types.
func (t RoomType) Valid() bool {
	return t == RoomTypeText || t == RoomTypeVoice
}

// Message is an immutable, timestamped unit of content appended to exactly
// one room. CreatedAt is supplied by the sending client; ID is assigned
// server-side at append time.
//
// Content is plain text. By convention it may carry a generated
// image-placeholder URL; that is not a distinct message kind.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Room is a named sub-container of a channel. It has no identity outside
// the channel document that embeds it.
//
// Messages is append-only and chronological by insertion; RoomUsers is the
// membership gate for room visibility.
type Room struct {
	RoomName  string    `json:"roomName"`
	RoomType  RoomType  `json:"roomType"`
	RoomUsers []string  `json:"roomUsers"`
	Messages  []Message `json:"messages"`
}

// HasUser reports whether user is in the room's membership list.
func (r *Room) HasUser(user string) bool {
	for _, u := range r.RoomUsers {
		if u == user {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the room.
func (r Room) Clone() Room {
	out := r
	out.RoomUsers = append([]string(nil), r.RoomUsers...)
	out.Messages = append([]Message(nil), r.Messages...)
	return out
}

// ChannelDoc is the whole channel document — the unit of storage and of
// concurrency. The document key in the store is always equal to ChannelName.
//
// Users is insertion-ordered and may contain duplicates (the caller is
// responsible for not adding a user twice). Rooms is insertion-ordered and
// contains no two rooms with the same RoomName.
//
// Messages is a legacy top-level field from before rooms existed. It is
// always empty on new channels but kept in the wire shape so old clients
// that read it keep working.
type ChannelDoc struct {
	ChannelName string    `json:"channelName"`
	Owner       string    `json:"owner"`
	Users       []string  `json:"users"`
	Rooms       []Room    `json:"rooms"`
	Messages    []Message `json:"messages"`
}

// HasUser reports whether user is in the channel's membership list.
func (d *ChannelDoc) HasUser(user string) bool {
	for _, u := range d.Users {
		if u == user {
			return true
		}
	}
	return false
}

// FindRoom returns a pointer to the first room with the given name, or nil.
// The pointer aliases the document's own rooms slice, so mutating through
// it is only safe inside a serialized store update.
func (d *ChannelDoc) FindRoom(roomName string) *Room {
	for i := range d.Rooms {
		if d.Rooms[i].RoomName == roomName {
			return &d.Rooms[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document. The store hands clones to
// readers and watchers so no caller can reach into shared state.
func (d ChannelDoc) Clone() ChannelDoc {
	out := d
	out.Users = append([]string(nil), d.Users...)
	out.Messages = append([]Message(nil), d.Messages...)
	out.Rooms = make([]Room, len(d.Rooms))
	for i, r := range d.Rooms {
		out.Rooms[i] = r.Clone()
	}
	return out
}

// User is a profile row in the relational side of the store. Session
// management is delegated to the token issuer; this is only the profile
// the chat UI shows.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
