// Package memory is the in-process document store. It backs every test
// and the STORE_BACKEND=memory deployment mode.
//
// One mutex serializes all mutations, which trivially satisfies the
// single-writer-per-document requirement: a read-modify-write update can
// never lose a concurrent writer's commit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

type entry struct {
	doc     models.ChannelDoc
	version int64
}

// Store implements docstore.Store entirely in memory.
type Store struct {
	mu      sync.Mutex
	docs    map[string]*entry
	listRev int64

	watchers     map[string]map[*docstore.Stream[docstore.Snapshot]]struct{}
	listWatchers map[*docstore.Stream[docstore.ListSnapshot]]struct{}
}

// New creates an empty store.
func New() *Store {
	return &Store{
		docs:         make(map[string]*entry),
		watchers:     make(map[string]map[*docstore.Stream[docstore.Snapshot]]struct{}),
		listWatchers: make(map[*docstore.Stream[docstore.ListSnapshot]]struct{}),
	}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, doc models.ChannelDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := doc.ChannelName
	if _, exists := s.docs[name]; exists {
		return apperr.AlreadyExists("channel %q already exists", name)
	}
	s.docs[name] = &entry{doc: doc.Clone(), version: 1}
	s.broadcastLocked(name)
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (models.ChannelDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[name]
	if !ok {
		return models.ChannelDoc{}, apperr.NotFound("channel %q not found", name)
	}
	return e.doc.Clone(), nil
}

func (s *Store) Update(ctx context.Context, name string, mutate func(doc *models.ChannelDoc) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[name]
	if !ok {
		return apperr.NotFound("channel %q not found", name)
	}

	next := e.doc.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	e.doc = next
	e.version++
	s.broadcastLocked(name)
	return nil
}

func (s *Store) AppendUser(ctx context.Context, name string, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[name]
	if !ok {
		return apperr.NotFound("channel %q not found", name)
	}
	e.doc.Users = append(e.doc.Users, user)
	e.version++
	s.broadcastLocked(name)
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, ok := s.docs[name]; !ok {
		s.mu.Unlock()
		return apperr.NotFound("channel %q not found", name)
	}
	delete(s.docs, name)

	// Detach the document's watchers before failing them: Fail runs the
	// stream's onCancel, which re-enters the store, so it must happen
	// outside the lock.
	orphans := s.watchers[name]
	delete(s.watchers, name)
	s.notifyListLocked()
	s.mu.Unlock()

	for w := range orphans {
		w.Fail(apperr.NotFound("channel %q deleted", name))
	}
	return nil
}

func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.ChannelDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAllLocked(), nil
}

func (s *Store) Watch(ctx context.Context, name string) (*docstore.Stream[docstore.Snapshot], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[name]
	if !ok {
		return nil, apperr.NotFound("channel %q not found", name)
	}

	var stream *docstore.Stream[docstore.Snapshot]
	stream = docstore.NewStream[docstore.Snapshot](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.watchers[name]; ok {
			delete(set, stream)
		}
	})
	set, ok := s.watchers[name]
	if !ok {
		set = make(map[*docstore.Stream[docstore.Snapshot]]struct{})
		s.watchers[name] = set
	}
	set[stream] = struct{}{}

	// Initial snapshot reflects every mutation committed before the
	// subscription.
	stream.Publish(docstore.Snapshot{Version: e.version, Doc: e.doc.Clone()})
	return stream, nil
}

func (s *Store) WatchAll(ctx context.Context) (*docstore.Stream[docstore.ListSnapshot], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stream *docstore.Stream[docstore.ListSnapshot]
	stream = docstore.NewStream[docstore.ListSnapshot](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listWatchers, stream)
	})
	s.listWatchers[stream] = struct{}{}

	stream.Publish(docstore.ListSnapshot{Version: s.listRev, Docs: s.listAllLocked()})
	return stream, nil
}

// broadcastLocked pushes the document's new state to its watchers and the
// collection's new state to list watchers. Caller holds s.mu; a watcher
// that cancels concurrently blocks in its onCancel until we release it,
// so publishing here can never race a deregistration.
func (s *Store) broadcastLocked(name string) {
	if e, ok := s.docs[name]; ok {
		for w := range s.watchers[name] {
			w.Publish(docstore.Snapshot{Version: e.version, Doc: e.doc.Clone()})
		}
	}
	s.notifyListLocked()
}

func (s *Store) notifyListLocked() {
	s.listRev++
	if len(s.listWatchers) == 0 {
		return
	}
	docs := s.listAllLocked()
	for w := range s.listWatchers {
		w.Publish(docstore.ListSnapshot{Version: s.listRev, Docs: docs})
	}
}

func (s *Store) listAllLocked() []models.ChannelDoc {
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]models.ChannelDoc, 0, len(names))
	for _, name := range names {
		docs = append(docs, s.docs[name].doc.Clone())
	}
	return docs
}
