package models

// SettingsTarget is a tagged variant over the two things the settings
// panel can point at: a whole channel or a single room within it. Handlers
// switch exhaustively on the concrete type instead of probing for fields.
type SettingsTarget interface {
	// Channel returns the name of the channel the target lives in.
	Channel() string

	sealed()
}

// ChannelSettings mutates channel-level settings. Zero-valued fields are
// left untouched.
type ChannelSettings struct {
	ChannelName string `json:"channelName"`

	// RemoveUser drops the first occurrence of this user from the
	// channel's user list.
	RemoveUser string `json:"removeUser,omitempty"`
}

func (s ChannelSettings) Channel() string { return s.ChannelName }
func (ChannelSettings) sealed()           {}

// RoomSettings mutates one room of a channel. Zero-valued fields are left
// untouched.
type RoomSettings struct {
	ChannelName string `json:"channelName"`
	RoomName    string `json:"roomName"`

	// RoomType switches the room between "text" and "voice".
	RoomType RoomType `json:"roomType,omitempty"`

	// RemoveUser drops the first occurrence of this user from the room's
	// user list.
	RemoveUser string `json:"removeUser,omitempty"`
}

func (s RoomSettings) Channel() string { return s.ChannelName }
func (RoomSettings) sealed()           {}
