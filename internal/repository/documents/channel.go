// Package documents implements the chat core — channel repository, room
// registry, message append log, membership manager and settings manager —
// on top of the docstore.Store adapter. The store serializes all writers
// to one channel document, so every mutation here is free of the
// lost-update hazard that whole-document read-modify-write would
// otherwise carry.
package documents

import (
	"context"
	"strings"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

// ChannelStore implements repository.ChannelRepository.
type ChannelStore struct {
	store docstore.Store
}

func NewChannelStore(store docstore.Store) *ChannelStore {
	return &ChannelStore{store: store}
}

func (s *ChannelStore) Create(ctx context.Context, name, owner string, initialUsers []string) (*models.ChannelDoc, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("channel name must not be empty")
	}
	if owner == "" {
		return nil, apperr.InvalidArgument("channel owner must not be empty")
	}

	doc := models.ChannelDoc{
		ChannelName: name,
		Owner:       owner,
		Users:       append([]string{}, initialUsers...),
		Rooms:       []models.Room{},
		Messages:    []models.Message{},
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *ChannelStore) Delete(ctx context.Context, name, caller string) error {
	doc, err := s.store.Get(ctx, name)
	if err != nil {
		return err
	}
	if doc.Owner != caller {
		return apperr.Unauthorized("only the owner of channel %q may delete it", name)
	}
	return s.store.Delete(ctx, name)
}

func (s *ChannelStore) Get(ctx context.Context, name string) (*models.ChannelDoc, error) {
	doc, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *ChannelStore) ListNames(ctx context.Context) ([]string, error) {
	return s.store.ListNames(ctx)
}

func (s *ChannelStore) ListForUser(ctx context.Context, user string) ([]models.ChannelDoc, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Membership in the users list is the sole visibility predicate —
	// even the owner sees nothing unless they are listed.
	visible := make([]models.ChannelDoc, 0)
	for _, doc := range all {
		if doc.HasUser(user) {
			visible = append(visible, doc)
		}
	}
	return visible, nil
}
