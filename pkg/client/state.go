package client

import (
	"sync"

	"github.com/nived-m/chathaven/internal/models"
)

// StateStore holds the client's view state: the known channels, the
// current channel/room selection, and the derived message list. It is
// written by the Bridge (snapshots) and by explicit selection calls, and
// read by whatever renders it.
//
// Every snapshot is a full replacement. Selections are kept by name, so a
// replacement that still contains the selected channel/room leaves the
// selection pointing at the fresh data; a replacement that dropped it
// clears the selection.
type StateStore struct {
	mu       sync.RWMutex
	channels []models.ChannelDoc

	selectedChannel string
	selectedRoom    string
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

// SetChannels replaces the whole channel list (collection stream
// projection).
func (s *StateStore) SetChannels(channels []models.ChannelDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = channels
	s.reconcileLocked()
}

// ApplyChannel replaces one channel's document (single-document stream
// projection). A channel not seen before is added to the list.
func (s *StateStore) ApplyChannel(doc models.ChannelDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.channels {
		if s.channels[i].ChannelName == doc.ChannelName {
			s.channels[i] = doc
			s.reconcileLocked()
			return
		}
	}
	s.channels = append(s.channels, doc)
	s.reconcileLocked()
}

// RemoveChannel drops a deleted channel from the view.
func (s *StateStore) RemoveChannel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.channels {
		if s.channels[i].ChannelName == name {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			break
		}
	}
	s.reconcileLocked()
}

// SelectChannel makes a channel current and clears the room selection.
func (s *StateStore) SelectChannel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findChannelLocked(name) == nil {
		return false
	}
	s.selectedChannel = name
	s.selectedRoom = ""
	return true
}

// SelectRoom makes a room of the current channel current.
func (s *StateStore) SelectRoom(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.findChannelLocked(s.selectedChannel)
	if ch == nil || ch.FindRoom(name) == nil {
		return false
	}
	s.selectedRoom = name
	return true
}

// Channels returns the current channel list.
func (s *StateStore) Channels() []models.ChannelDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChannelDoc(nil), s.channels...)
}

// ChannelsFor returns only the channels whose user list contains user.
func (s *StateStore) ChannelsFor(user string) []models.ChannelDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChannelDoc, 0)
	for _, ch := range s.channels {
		if ch.HasUser(user) {
			out = append(out, ch)
		}
	}
	return out
}

// SelectedChannel returns the current channel document.
func (s *StateStore) SelectedChannel() (models.ChannelDoc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch := s.findChannelLocked(s.selectedChannel)
	if ch == nil {
		return models.ChannelDoc{}, false
	}
	return *ch, true
}

// SelectedRoom returns the current room of the current channel.
func (s *StateStore) SelectedRoom() (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room := s.selectedRoomLocked()
	if room == nil {
		return models.Room{}, false
	}
	return *room, true
}

// Messages is the derived message list of the selected room, oldest
// first. Empty when nothing is selected.
func (s *StateStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room := s.selectedRoomLocked()
	if room == nil {
		return []models.Message{}
	}
	return append([]models.Message(nil), room.Messages...)
}

func (s *StateStore) findChannelLocked(name string) *models.ChannelDoc {
	if name == "" {
		return nil
	}
	for i := range s.channels {
		if s.channels[i].ChannelName == name {
			return &s.channels[i]
		}
	}
	return nil
}

func (s *StateStore) selectedRoomLocked() *models.Room {
	ch := s.findChannelLocked(s.selectedChannel)
	if ch == nil || s.selectedRoom == "" {
		return nil
	}
	return ch.FindRoom(s.selectedRoom)
}

// reconcileLocked drops selections that no longer resolve against the
// replaced data.
func (s *StateStore) reconcileLocked() {
	ch := s.findChannelLocked(s.selectedChannel)
	if ch == nil {
		s.selectedChannel = ""
		s.selectedRoom = ""
		return
	}
	if s.selectedRoom != "" && ch.FindRoom(s.selectedRoom) == nil {
		s.selectedRoom = ""
	}
}
