package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/dmoralesv/floreria-backend/pkg/logger"
)

// snapshotVersion guards the stored shape. Unknown versions and corrupt
// payloads load as an empty cart instead of failing the request.
const snapshotVersion = 1

const defaultCartTTL = 30 * 24 * time.Hour

type snapshot struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// Store persists cart snapshots in Redis keyed by the client's cart token.
type Store struct {
	redis snapshotStore
	logg  *logger.Logger
	ttl   time.Duration
}

// NewStore builds a cart store over the provided Redis client.
func NewStore(redis snapshotStore, logg *logger.Logger) *Store {
	return &Store{redis: redis, logg: logg, ttl: defaultCartTTL}
}

// WithTTL overrides the snapshot lifetime. Zero or negative keeps the default.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// Load reads the cart for a token. A missing key is an empty cart; a corrupt
// or unknown-version snapshot degrades to an empty cart with a warning.
func (s *Store) Load(ctx context.Context, token string) (*Cart, error) {
	raw, err := s.redis.Get(ctx, s.redis.CartKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.warn(ctx, token, "cart snapshot corrupt, starting empty")
		return &Cart{}, nil
	}
	if snap.Version != snapshotVersion {
		s.warn(ctx, token, "cart snapshot version unknown, starting empty")
		return &Cart{}, nil
	}
	return &Cart{Lines: snap.Lines}, nil
}

// Save writes the full cart snapshot, refreshing its TTL.
func (s *Store) Save(ctx context.Context, token string, cart *Cart) error {
	payload, err := json.Marshal(snapshot{Version: snapshotVersion, Lines: cart.Lines})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.redis.CartKey(token), string(payload), s.ttl)
}

// Drop deletes the stored snapshot.
func (s *Store) Drop(ctx context.Context, token string) error {
	return s.redis.Del(ctx, s.redis.CartKey(token))
}

func (s *Store) warn(ctx context.Context, token, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithCartToken(ctx, token), msg)
}
