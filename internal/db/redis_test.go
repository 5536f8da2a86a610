package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/airenas/hello-form/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewRedisJournal(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		key     string
		size    int
		wantErr bool
	}{
		{name: "ok", url: "redis://localhost:6379/1", size: 10},
		{name: "encrypted", url: "redis://localhost:6379", key: testKey, size: 1},
		{name: "bad url", url: "http://localhost", size: 10, wantErr: true},
		{name: "no size", url: "redis://localhost:6379", size: 0, wantErr: true},
		{name: "short key", url: "redis://localhost:6379", key: "short", size: 10, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRedisJournal(tt.url, tt.key, tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), got.size)
			assert.Equal(t, tt.key != "", got.crypter != nil)
			_ = got.Close()
		})
	}
}

// needs a running redis, REDIS_URL=redis://localhost:6379/15
func TestRedisJournal_Live(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("no REDIS_URL")
	}
	j, err := NewRedisJournal(url, testKey, 2)
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()
	require.NoError(t, j.client.Del(ctx, journalKey).Err())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.Add(ctx, &api.FailureEntry{ID: id, Time: time.Now().UTC(), Detail: "x"}))
	}
	got, err := j.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "c b", ids(got))
	got, err = j.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "c", ids(got))

	raw, err := j.client.LIndex(ctx, journalKey, 0).Result()
	require.NoError(t, err)
	assert.NotContains(t, raw, `"id"`)
}
