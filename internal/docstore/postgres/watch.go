package postgres

import (
	"context"
	"encoding/json"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
)

func (s *Store) Watch(ctx context.Context, name string) (*docstore.Stream[docstore.Snapshot], error) {
	sub := s.rdb.Subscribe(ctx, docTopic(name))

	// Force the SUBSCRIBE round-trip before the initial read. Anything
	// committed after this point reaches the pub/sub channel; anything
	// committed before is covered by the snapshot read below, and the
	// overlap is deduplicated by the version check in the pump.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, apperr.Transport(err, "subscribe to channel %q", name)
	}

	doc, version, err := s.get(ctx, name)
	if err != nil {
		sub.Close()
		return nil, err
	}

	stream := docstore.NewStream[docstore.Snapshot](func() { sub.Close() })
	stream.Publish(docstore.Snapshot{Version: version, Doc: doc})

	go func() {
		last := version
		ch := sub.Channel()
		for {
			select {
			case <-stream.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					// The pub/sub connection dropped underneath us.
					stream.Fail(apperr.Transport(nil, "change stream for %q closed", name))
					return
				}
				var n notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					stream.Fail(apperr.Transport(err, "decode change notification"))
					return
				}
				if n.Deleted {
					stream.Fail(apperr.NotFound("channel %q deleted", name))
					return
				}
				if n.Doc == nil || n.Version <= last {
					continue
				}
				last = n.Version
				stream.Publish(docstore.Snapshot{Version: n.Version, Doc: *n.Doc})
			}
		}
	}()

	return stream, nil
}

func (s *Store) WatchAll(ctx context.Context) (*docstore.Stream[docstore.ListSnapshot], error) {
	sub := s.rdb.Subscribe(ctx, listTopic)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, apperr.Transport(err, "subscribe to channel collection")
	}

	docs, err := s.ListAll(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}

	stream := docstore.NewStream[docstore.ListSnapshot](func() { sub.Close() })

	// Collection emissions carry a per-subscription revision counter; the
	// store gives no cross-document ordering guarantee, only that each
	// emission is a complete, newer-than-last view.
	var rev int64 = 1
	stream.Publish(docstore.ListSnapshot{Version: rev, Docs: docs})

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-stream.Done():
				return
			case _, ok := <-ch:
				if !ok {
					stream.Fail(apperr.Transport(nil, "collection change stream closed"))
					return
				}
				docs, err := s.ListAll(ctx)
				if err != nil {
					stream.Fail(err)
					return
				}
				rev++
				stream.Publish(docstore.ListSnapshot{Version: rev, Docs: docs})
			}
		}
	}()

	return stream, nil
}
