// Package postgres stores each channel as one JSONB document in a
// channel-keyed row and fans change notifications out over Redis pub/sub.
//
// Writers to the same channel are serialized by a row lock (SELECT ... FOR
// UPDATE inside the update transaction), so a read-modify-write can never
// lose a concurrent writer's commit. Every committed write bumps the row's
// version and publishes the full new snapshot; watchers drop anything at
// or below the version they have already emitted, which keeps per-document
// ordering intact even if pub/sub delivery reorders.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/apperr"
	"github.com/nived-m/chathaven/internal/docstore"
	"github.com/nived-m/chathaven/internal/models"
)

const listTopic = "chathaven:docs"

func docTopic(name string) string { return "chathaven:doc:" + name }

// notification is the pub/sub payload for one committed write. A deleted
// document is announced with Deleted=true and no body.
type notification struct {
	Version int64              `json:"version"`
	Deleted bool               `json:"deleted,omitempty"`
	Doc     *models.ChannelDoc `json:"doc,omitempty"`
}

// Store implements docstore.Store on Postgres + Redis.
type Store struct {
	pool   *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.Logger
}

func New(pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{pool: pool, rdb: rdb, logger: logger}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, doc models.ChannelDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperr.Transport(err, "encode channel document")
	}

	// ON CONFLICT DO NOTHING makes this strictly create-or-fail: a name
	// collision affects zero rows and the existing document is untouched.
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO channel_docs (name, doc, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (name) DO NOTHING`,
		doc.ChannelName, body)
	if err != nil {
		return apperr.Transport(err, "insert channel document")
	}
	if tag.RowsAffected() == 0 {
		return apperr.AlreadyExists("channel %q already exists", doc.ChannelName)
	}

	s.notify(ctx, doc.ChannelName, notification{Version: 1, Doc: &doc})
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (models.ChannelDoc, error) {
	doc, _, err := s.get(ctx, name)
	return doc, err
}

func (s *Store) get(ctx context.Context, name string) (models.ChannelDoc, int64, error) {
	var (
		body    []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, `
		SELECT doc, version FROM channel_docs WHERE name = $1`,
		name).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelDoc{}, 0, apperr.NotFound("channel %q not found", name)
		}
		return models.ChannelDoc{}, 0, apperr.Transport(err, "get channel document")
	}

	var doc models.ChannelDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.ChannelDoc{}, 0, apperr.Transport(err, "decode channel document")
	}
	return doc, version, nil
}

func (s *Store) Update(ctx context.Context, name string, mutate func(doc *models.ChannelDoc) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Transport(err, "begin update")
	}
	defer tx.Rollback(ctx)

	// The row lock is the single-writer queue for this channel: every
	// other mutator blocks here until this transaction commits.
	var body []byte
	err = tx.QueryRow(ctx, `
		SELECT doc FROM channel_docs WHERE name = $1 FOR UPDATE`,
		name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("channel %q not found", name)
		}
		return apperr.Transport(err, "lock channel document")
	}

	var doc models.ChannelDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperr.Transport(err, "decode channel document")
	}

	if err := mutate(&doc); err != nil {
		return err
	}

	next, err := json.Marshal(doc)
	if err != nil {
		return apperr.Transport(err, "encode channel document")
	}

	var version int64
	err = tx.QueryRow(ctx, `
		UPDATE channel_docs SET doc = $2, version = version + 1
		WHERE name = $1
		RETURNING version`,
		name, next).Scan(&version)
	if err != nil {
		return apperr.Transport(err, "write channel document")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Transport(err, "commit update")
	}

	s.notify(ctx, name, notification{Version: version, Doc: &doc})
	return nil
}

func (s *Store) AppendUser(ctx context.Context, name string, user string) error {
	// Single-statement append to the top-level users array: no prior
	// read, atomic against every other writer.
	var (
		body    []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, `
		UPDATE channel_docs
		SET doc = jsonb_set(doc, '{users}', (doc->'users') || to_jsonb($2::text)),
		    version = version + 1
		WHERE name = $1
		RETURNING doc, version`,
		name, user).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("channel %q not found", name)
		}
		return apperr.Transport(err, "append user")
	}

	var doc models.ChannelDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperr.Transport(err, "decode channel document")
	}

	s.notify(ctx, name, notification{Version: version, Doc: &doc})
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM channel_docs WHERE name = $1`, name)
	if err != nil {
		return apperr.Transport(err, "delete channel document")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("channel %q not found", name)
	}

	s.notify(ctx, name, notification{Deleted: true})
	return nil
}

func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM channel_docs ORDER BY name`)
	if err != nil {
		return nil, apperr.Transport(err, "list channel names")
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperr.Transport(err, "scan channel name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transport(err, "iterate channel names")
	}

	return names, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.ChannelDoc, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM channel_docs ORDER BY name`)
	if err != nil {
		return nil, apperr.Transport(err, "list channel documents")
	}
	defer rows.Close()

	docs := make([]models.ChannelDoc, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, apperr.Transport(err, "scan channel document")
		}
		var doc models.ChannelDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, apperr.Transport(err, "decode channel document")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transport(err, "iterate channel documents")
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ChannelName < docs[j].ChannelName })
	return docs, nil
}

// notify publishes a committed write. Best-effort: a lost notification
// only delays watchers until the next write, it never corrupts state, so
// a publish failure is logged rather than failing the command.
func (s *Store) notify(ctx context.Context, name string, n notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("encode change notification", zap.Error(err))
		return
	}
	if err := s.rdb.Publish(ctx, docTopic(name), payload).Err(); err != nil {
		s.logger.Warn("publish change notification",
			zap.String("channel", name), zap.Error(err))
	}
	if err := s.rdb.Publish(ctx, listTopic, payload).Err(); err != nil {
		s.logger.Warn("publish collection notification", zap.Error(err))
	}
}
