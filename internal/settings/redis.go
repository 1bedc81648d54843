package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "settings:"

// RedisStore persists settings as one redis hash per section, with
// JSON-encoded values. Key layout: settings:<key> -> {subkey: json}.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (map[string]map[string]any, error) {
	keys, err := s.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("list settings sections: %w", err)
	}

	out := make(map[string]map[string]any, len(keys))
	for _, key := range keys {
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("read settings %s: %w", key, err)
		}
		section := make(map[string]any, len(fields))
		for subkey, raw := range fields {
			var value any
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				// tolerate hand-written plain strings
				value = raw
			}
			section[subkey] = value
		}
		out[strings.TrimPrefix(key, keyPrefix)] = section
	}
	return out, nil
}

func (s *RedisStore) Set(ctx context.Context, key, subkey string, value any) (SaveResult, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode settings value: %w", err)
	}

	current, err := s.client.HGet(ctx, keyPrefix+key, subkey).Result()
	if err != nil && err != redis.Nil {
		return SaveResult{}, fmt.Errorf("read current settings value: %w", err)
	}

	result := SaveResult{Success: true}
	if err == nil && current == string(encoded) {
		return result, nil
	}

	if err := s.client.HSet(ctx, keyPrefix+key, subkey, string(encoded)).Err(); err != nil {
		return SaveResult{}, fmt.Errorf("write settings value: %w", err)
	}
	result.SettingsChanged = true
	result.RestartRequired = sectionNeedsRestart(key)
	return result, nil
}

// equalValues compares two settings values structurally by comparing
// their JSON encodings; settings payloads are plain JSON trees.
func equalValues(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ra) == string(rb)
}
