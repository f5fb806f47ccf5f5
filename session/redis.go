package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EasterCompany/dex-voice-service/cache"
	"github.com/redis/go-redis/v9"
)

const (
	fieldCreatedAt = "created_at"
	fieldLastReco  = "last_reco"
	historySuffix  = ":history"
)

// RedisStore keeps sessions in Redis so several service instances can share
// them. Each session is a hash plus a capped list of JSON turns.
type RedisStore struct {
	client *cache.RedisClient
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps client. A positive ttl expires idle sessions; every
// access slides the deadline.
func NewRedisStore(client *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (r *RedisStore) metaKey(id string) string    { return r.client.Key("session:" + id) }
func (r *RedisStore) historyKey(id string) string { return r.metaKey(id) + historySuffix }

func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		s, err := r.Get(ctx, id)
		if err == nil {
			if err := r.touch(ctx, id); err != nil {
				return nil, err
			}
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	s := newSession(r.now())
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.metaKey(s.ID), fieldCreatedAt, s.CreatedAt.UTC().Format(time.RFC3339Nano))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.metaKey(s.ID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	pipe := r.client.Pipeline()
	metaCmd := pipe.HGetAll(ctx, r.metaKey(id))
	histCmd := pipe.LRange(ctx, r.historyKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("could not load session %s: %w", id, err)
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return nil, ErrNotFound
	}

	s := &Session{ID: id, History: []Turn{}, LastReco: meta[fieldLastReco]}
	if ts, ok := meta[fieldCreatedAt]; ok {
		created, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("could not parse session %s timestamp: %w", id, err)
		}
		s.CreatedAt = created
	}
	for _, raw := range histCmd.Val() {
		var t Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("could not unmarshal turn in session %s: %w", id, err)
		}
		s.History = append(s.History, t)
	}
	return s, nil
}

func (r *RedisStore) PushTurn(ctx context.Context, s *Session, role Role, text string) error {
	t := Turn{Role: role, Text: text}
	jsonTurn, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not marshal turn: %w", err)
	}

	key := r.historyKey(s.ID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, jsonTurn)
	pipe.LTrim(ctx, key, -MaxHistory, -1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
		pipe.Expire(ctx, r.metaKey(s.ID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("could not push turn: %w", err)
	}
	s.push(t)
	return nil
}

func (r *RedisStore) SetLastReco(ctx context.Context, s *Session, title string) error {
	if err := r.client.HSet(ctx, r.metaKey(s.ID), fieldLastReco, title).Err(); err != nil {
		return fmt.Errorf("could not set last recommendation: %w", err)
	}
	s.LastReco = title
	return nil
}

// Count scans for session hashes. It walks the keyspace and is meant for
// status pages, not request paths.
func (r *RedisStore) Count(ctx context.Context) (int, error) {
	ids, err := r.IDs(ctx)
	return len(ids), err
}

// IDs lists every stored session ID.
func (r *RedisStore) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.client.ScanKeys(ctx, r.client.Key("session:*"))
	if err != nil {
		return nil, fmt.Errorf("could not scan sessions: %w", err)
	}
	prefix := r.client.Key("session:")
	var ids []string
	for _, k := range keys {
		if strings.HasSuffix(k, historySuffix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

func (r *RedisStore) touch(ctx context.Context, id string) error {
	if r.ttl <= 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	pipe.Expire(ctx, r.metaKey(id), r.ttl)
	pipe.Expire(ctx, r.historyKey(id), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("could not refresh session ttl: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
