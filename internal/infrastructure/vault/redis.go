package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const tableKeyPrefix = "donor_tokens:"

// Redis stores each session table as a hash that expires with the session,
// so tables survive restarts and are shared between replicas.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

func tableKey(sessionID string) string {
	return tableKeyPrefix + sessionID
}

func (v *Redis) Put(ctx context.Context, sessionID string, entry domain.TokenEntry, sessionExpiry time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required: %w", domain.ErrUnauthorized)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal token entry: %w", err)
	}
	key := tableKey(sessionID)
	now := v.now()

	stale, err := v.expiredTokens(ctx, key, now)
	if err != nil {
		return err
	}

	pipe := v.client.TxPipeline()
	if len(stale) > 0 {
		pipe.HDel(ctx, key, stale...)
	}
	pipe.HSet(ctx, key, entry.Token, raw)
	pipe.ExpireAt(ctx, key, sessionExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store token entry: %w", err)
	}
	return nil
}

func (v *Redis) Get(ctx context.Context, sessionID, token string) (domain.TokenEntry, error) {
	key := tableKey(sessionID)
	raw, err := v.client.HGet(ctx, key, token).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TokenEntry{}, fmt.Errorf("donor token: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.TokenEntry{}, fmt.Errorf("read token entry: %w", err)
	}
	var e domain.TokenEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.TokenEntry{}, fmt.Errorf("decode token entry: %w", err)
	}
	if e.Expired(v.now()) {
		_ = v.client.HDel(ctx, key, token).Err()
		return domain.TokenEntry{}, fmt.Errorf("donor token expired: %w", domain.ErrNotFound)
	}
	return e, nil
}

func (v *Redis) Discard(ctx context.Context, sessionID string) error {
	return v.client.Del(ctx, tableKey(sessionID)).Err()
}

func (v *Redis) expiredTokens(ctx context.Context, key string, now time.Time) ([]string, error) {
	all, err := v.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read token table: %w", err)
	}
	var stale []string
	for tok, raw := range all {
		var e domain.TokenEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Expired(now) {
			stale = append(stale, tok)
		}
	}
	return stale, nil
}
