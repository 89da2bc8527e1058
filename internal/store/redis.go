package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	searchTTL      = 30 * 24 * time.Hour
	unreadCacheTTL = 30 * time.Second
)

// RedisStore handles Redis operations: the unread-count cache, the
// per-viewer message search index and the rate-limiter state. It is never
// the system of record; losing it costs recomputation, not data.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying client for middleware that manages its own
// keys (rate limiting, IP blocking).
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// unreadKey returns the key for a user's cached unread count.
func unreadKey(userID string) string {
	return fmt.Sprintf("unread:%s", userID)
}

// searchWordKey returns the key for one word of a user's search index.
func searchWordKey(userID, word string) string {
	return fmt.Sprintf("search:%s:words:%s", userID, strings.ToLower(word))
}

// CachedUnread returns the cached unread count for a user. The second
// return is false on a cache miss.
func (s *RedisStore) CachedUnread(ctx context.Context, userID string) (int, bool) {
	val, err := s.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetCachedUnread caches a user's unread count for a short TTL.
func (s *RedisStore) SetCachedUnread(ctx context.Context, userID string, count int) {
	s.client.Set(ctx, unreadKey(userID), strconv.Itoa(count), unreadCacheTTL)
}

// InvalidateUnread drops a user's cached unread count. Called after appends
// and mark-reads so the badge converges quickly.
func (s *RedisStore) InvalidateUnread(ctx context.Context, userID string) {
	s.client.Del(ctx, unreadKey(userID))
}

// wordRegex matches word characters for search indexing.
var wordRegex = regexp.MustCompile(`\w+`)

// Tokenize splits text into the lowercase index tokens used by the search
// index, dropping words shorter than 3 characters and duplicates.
func Tokenize(text string) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]bool, len(words))
	var out []string
	for _, word := range words {
		if len(word) < 3 || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

// IndexMessage indexes a text message body for both participants. Indexing
// is best-effort: a failure loses searchability, never the message.
func (s *RedisStore) IndexMessage(ctx context.Context, msgID, listingID, body string, participantIDs ...string) {
	for _, word := range Tokenize(body) {
		ref := fmt.Sprintf("%s:%s", listingID, msgID)
		for _, userID := range participantIDs {
			key := searchWordKey(userID, word)
			s.client.ZAdd(ctx, key, redis.Z{
				Score:  float64(time.Now().UnixMilli()),
				Member: ref,
			})
			s.client.Expire(ctx, key, searchTTL)
		}
	}
}

// SearchMessages returns message IDs from the user's index matching all
// tokens, newest first, optionally filtered to one listing.
func (s *RedisStore) SearchMessages(ctx context.Context, userID string, tokens []string, limit int, listingFilter string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = searchWordKey(userID, t)
	}

	var refs []string
	if len(keys) == 1 {
		var err error
		refs, err = s.client.ZRevRange(ctx, keys[0], 0, int64(limit*3)-1).Result()
		if err != nil {
			return nil, err
		}
	} else {
		// Multiple words: intersect into a short-lived temp key.
		tempKey := fmt.Sprintf("search:temp:%d", time.Now().UnixNano())
		if err := s.client.ZInterStore(ctx, tempKey, &redis.ZStore{
			Keys:      keys,
			Aggregate: "MAX",
		}).Err(); err != nil {
			return nil, err
		}
		s.client.Expire(ctx, tempKey, 10*time.Second)

		var err error
		refs, err = s.client.ZRevRange(ctx, tempKey, 0, int64(limit*3)-1).Result()
		s.client.Del(ctx, tempKey)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, limit)
	for _, ref := range refs {
		listingID, msgID, ok := strings.Cut(ref, ":")
		if !ok {
			continue
		}
		if listingFilter != "" && listingID != listingFilter {
			continue
		}
		ids = append(ids, msgID)
		if len(ids) >= limit {
			break
		}
	}
	return ids, nil
}
