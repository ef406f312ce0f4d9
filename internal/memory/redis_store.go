package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Transcripts expire after the
// configured TTL; the TTL is refreshed on every append.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisStore) transcriptKey(sessionID string) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}

func (r *RedisStore) load(ctx context.Context, sessionID string) (*Transcript, error) {
	data, err := r.client.Get(ctx, r.transcriptKey(sessionID)).Result()
	if err == redis.Nil {
		now := time.Now()
		return &Transcript{
			SessionID: sessionID,
			Entries:   []Entry{},
			Metadata:  Metadata{StartedAt: now, LastActivity: now},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript from Redis: %w", err)
	}

	var transcript Transcript
	if err := json.Unmarshal([]byte(data), &transcript); err != nil {
		return nil, fmt.Errorf("failed to parse transcript data: %w", err)
	}
	return &transcript, nil
}

func (r *RedisStore) save(ctx context.Context, transcript *Transcript) error {
	data, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := r.client.Set(ctx, r.transcriptKey(transcript.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save transcript to Redis: %w", err)
	}
	return nil
}

// Append adds one line and refreshes the transcript's TTL.
func (r *RedisStore) Append(ctx context.Context, sessionID, userID, role, text string) error {
	transcript, err := r.load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}

	if transcript.UserID == "" {
		transcript.UserID = userID
	}

	entry := Entry{Role: role, Text: text, Timestamp: time.Now()}
	transcript.Entries = append(transcript.Entries, entry)
	transcript.Metadata.LastActivity = entry.Timestamp
	transcript.Metadata.EntryCount = len(transcript.Entries)
	if transcript.Metadata.EntryCount == 1 {
		transcript.Metadata.StartedAt = entry.Timestamp
	}

	return r.save(ctx, transcript)
}

// Read returns the session's transcript entries in order.
func (r *RedisStore) Read(ctx context.Context, sessionID string) ([]Entry, error) {
	transcript, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return transcript.Entries, nil
}

// Clear removes the session's transcript.
func (r *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

// Exists checks whether a transcript exists for the session.
func (r *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.transcriptKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check transcript existence: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping verifies the Redis connection is alive.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
