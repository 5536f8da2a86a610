package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/secure"
	"github.com/redis/go-redis/v9"
)

const journalKey = "hello-form:failures"

// RedisJournal stores failure entries in a capped Redis list
type RedisJournal struct {
	client  *redis.Client
	ttl     time.Duration
	size    int64
	crypter *secure.Crypter
}

// NewRedisJournal creates a journal, entries are encrypted when encryptionKey is not empty
func NewRedisJournal(connStr string, encryptionKey string, size int) (*RedisJournal, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if size < 1 {
		return nil, fmt.Errorf("wrong size %d", size)
	}
	goapp.Log.Info().Str("redis", opt.Addr).Int("db", opt.DB).Int("size", size).Msg("Redis journal")

	res := &RedisJournal{
		client: redis.NewClient(opt),
		ttl:    time.Hour * 24 * 7,
		size:   int64(size),
	}
	if encryptionKey != "" {
		res.crypter, err = secure.NewCrypter(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create crypter: %w", err)
		}
	}
	return res, nil
}

// Add implements diag.Journal
func (r *RedisJournal) Add(ctx context.Context, entry *api.FailureEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if r.crypter != nil {
		if data, err = r.crypter.Encrypt(data); err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
	}
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, journalKey, data)
	pipe.LTrim(ctx, journalKey, 0, r.size-1)
	pipe.Expire(ctx, journalKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save failure: %w", err)
	}
	return nil
}

// List implements diag.Journal, returns newest first. limit <= 0 returns all.
func (r *RedisJournal) List(ctx context.Context, limit int) ([]*api.FailureEntry, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}
	items, err := r.client.LRange(ctx, journalKey, 0, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*api.FailureEntry{}, nil
		}
		return nil, fmt.Errorf("list failures: %w", err)
	}
	res := make([]*api.FailureEntry, 0, len(items))
	for _, it := range items {
		data := []byte(it)
		if r.crypter != nil {
			if data, err = r.crypter.Decrypt(data); err != nil {
				return nil, fmt.Errorf("decrypt: %w", err)
			}
		}
		var e api.FailureEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, nil
}

// Close releases the redis connection pool
func (r *RedisJournal) Close() error {
	return r.client.Close()
}
