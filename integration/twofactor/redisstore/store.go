package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/twofactor/core/twofactor"
)

// Compile-time check that Store implements twofactor.Store.
var _ twofactor.Store = (*Store)(nil)

const (
	defaultPrefix = "2fa"

	fieldSecret    = "secret"
	fieldCreatedAt = "created_at"
)

// replaceCodesScript rewrites the code set only while the record hash exists,
// so it cannot resurrect a record deleted concurrently.
// KEYS[1] record hash, KEYS[2] codes set, ARGV code hashes in issue order.
var replaceCodesScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('DEL', KEYS[2])
for i, h in ipairs(ARGV) do
	redis.call('ZADD', KEYS[2], i - 1, h)
end
return 1
`)

// Store keeps two-factor records in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix (default "2fa").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Store on top of client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) recordKey(ownerID string) string {
	return s.prefix + ":{" + ownerID + "}"
}

func (s *Store) codesKey(ownerID string) string {
	return s.recordKey(ownerID) + ":codes"
}

func (s *Store) Load(ctx context.Context, ownerID string) (*twofactor.Record, error) {
	var (
		fields *redis.MapStringStringCmd
		codes  *redis.StringSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		fields = p.HGetAll(ctx, s.recordKey(ownerID))
		codes = p.ZRange(ctx, s.codesKey(ownerID), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redisstore: load %q: %w", ownerID, err)
	}

	m := fields.Val()
	if len(m) == 0 {
		return nil, twofactor.ErrNotFound
	}

	rec := &twofactor.Record{
		OwnerID:       ownerID,
		Secret:        m[fieldSecret],
		RecoveryCodes: codes.Val(),
	}
	if v := m[fieldCreatedAt]; v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("redisstore: parse created_at for %q: %w", ownerID, err)
		}
		rec.CreatedAt = ts
	}
	return rec, nil
}

func (s *Store) Save(ctx context.Context, rec *twofactor.Record) error {
	if rec == nil || rec.OwnerID == "" {
		return twofactor.ErrInvalidOwner
	}
	rk, ck := s.recordKey(rec.OwnerID), s.codesKey(rec.OwnerID)

	members := make([]redis.Z, len(rec.RecoveryCodes))
	for i, h := range rec.RecoveryCodes {
		members[i] = redis.Z{Score: float64(i), Member: h}
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, rk, ck)
		p.HSet(ctx, rk,
			fieldSecret, rec.Secret,
			fieldCreatedAt, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if len(members) > 0 {
			p.ZAdd(ctx, ck, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: save %q: %w", rec.OwnerID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, s.recordKey(ownerID), s.codesKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redisstore: delete %q: %w", ownerID, err)
	}
	return nil
}

func (s *Store) RemoveRecoveryCode(ctx context.Context, ownerID, codeHash string) (bool, error) {
	n, err := s.client.ZRem(ctx, s.codesKey(ownerID), codeHash).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: remove recovery code for %q: %w", ownerID, err)
	}
	return n == 1, nil
}

func (s *Store) ReplaceRecoveryCodes(ctx context.Context, ownerID string, codeHashes []string) (bool, error) {
	args := make([]any, len(codeHashes))
	for i, h := range codeHashes {
		args[i] = h
	}
	n, err := replaceCodesScript.Run(ctx, s.client,
		[]string{s.recordKey(ownerID), s.codesKey(ownerID)}, args...,
	).Int()
	if err != nil {
		return false, fmt.Errorf("redisstore: replace recovery codes for %q: %w", ownerID, err)
	}
	return n == 1, nil
}
