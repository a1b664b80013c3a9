// Package docstore defines the contract for the channel document store:
// whole-document CRUD keyed by channel name, one atomic array-append
// primitive, serialized read-modify-write updates, and change
// subscriptions that push full snapshots to watchers.
//
// Two implementations exist: memory (tests, single-process deployments)
// and postgres (JSONB documents with Redis pub/sub change fan-out).
package docstore

import (
	"context"

	"github.com/nived-m/chathaven/internal/models"
)

// Snapshot is one emission of a single-document watch. Version increases
// by one per committed write to the document; watchers never observe
// versions out of order.
type Snapshot struct {
	Version int64             `json:"version"`
	Doc     models.ChannelDoc `json:"doc"`
}

// ListSnapshot is one emission of a collection watch: the full set of
// channel documents after some change, ordered by channel name. Version is
// a collection-wide revision counter with the same monotonicity guarantee;
// there is no ordering relationship between different documents' edits
// beyond it.
type ListSnapshot struct {
	Version int64               `json:"version"`
	Docs    []models.ChannelDoc `json:"docs"`
}

// Store is the document store adapter. All methods classify failures with
// the apperr taxonomy: NotFound for a missing document, AlreadyExists on a
// create collision, Transport for anything the backend couldn't serve.
type Store interface {
	// Create inserts a new document keyed by doc.ChannelName. It is
	// strictly create-or-fail: an existing key yields AlreadyExists and
	// the stored document is untouched.
	Create(ctx context.Context, doc models.ChannelDoc) error

	// Get returns a copy of the whole document.
	Get(ctx context.Context, name string) (models.ChannelDoc, error)

	// Update runs mutate against a private copy of the document and
	// commits the result as a whole-document replace. Updates to the same
	// document are serialized: no two mutate calls for one channel ever
	// interleave, so a committed write is never silently lost.
	//
	// If mutate returns an error the document is left unchanged and the
	// error is returned as-is.
	Update(ctx context.Context, name string, mutate func(doc *models.ChannelDoc) error) error

	// AppendUser is the atomic array-append primitive on the top-level
	// users field: no prior read, safe against concurrent appends.
	AppendUser(ctx context.Context, name string, user string) error

	// Delete removes the whole document, cascading to every embedded room
	// and message. Active watches on the document are terminated with a
	// NotFound error.
	Delete(ctx context.Context, name string) error

	// ListNames returns every document key, sorted. No pagination, no
	// membership filtering.
	ListNames(ctx context.Context) ([]string, error)

	// ListAll returns every document, sorted by channel name.
	ListAll(ctx context.Context) ([]models.ChannelDoc, error)

	// Watch subscribes to one document. The stream emits an initial
	// snapshot immediately, then a full snapshot per committed write.
	Watch(ctx context.Context, name string) (*Stream[Snapshot], error)

	// WatchAll subscribes to the whole collection: an initial snapshot,
	// then a full snapshot after every create, update or delete.
	WatchAll(ctx context.Context) (*Stream[ListSnapshot], error)
}
