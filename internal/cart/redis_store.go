package cart

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"offer-ticketing-platform/internal/models"

	"github.com/redis/go-redis/v9"
)

// decrementScript lowers one quantity and drops the entry from both keys at zero.
// KEYS: quantity hash, order set. ARGV: offer ID, TTL in milliseconds.
var decrementScript = redis.NewScript(`
local q = redis.call('HGET', KEYS[1], ARGV[1])
if not q then
	return -1
end
q = tonumber(q) - 1
if q <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	redis.call('ZREM', KEYS[2], ARGV[1])
else
	redis.call('HSET', KEYS[1], ARGV[1], q)
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
	redis.call('PEXPIRE', KEYS[2], ttl)
end
return q
`)

// RedisStore keeps carts in Redis with a TTL that is refreshed on every mutation.
//
// Quantities live in the hash cart:{userID}; insertion order in the sorted set
// cart:{userID}:order, scored by first-add time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

// Open returns the store itself; Redis carts are not bound to a request
func (s *RedisStore) Open(http.ResponseWriter, *http.Request) Store {
	return s
}

func quantityKey(userID int) string {
	return fmt.Sprintf("cart:%d", userID)
}

func orderKey(userID int) string {
	return fmt.Sprintf("cart:%d:order", userID)
}

func (s *RedisStore) Add(ctx context.Context, userID, offerID int) error {
	member := strconv.Itoa(offerID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, quantityKey(userID), member, 1)
		pipe.ZAddNX(ctx, orderKey(userID), redis.Z{
			Score:  float64(s.now().UnixNano()),
			Member: member,
		})
		s.touch(ctx, pipe, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Decrement(ctx context.Context, userID, offerID int) error {
	keys := []string{quantityKey(userID), orderKey(userID)}
	if err := decrementScript.Run(ctx, s.client, keys, strconv.Itoa(offerID), s.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to decrement cart entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, userID, offerID int) error {
	member := strconv.Itoa(offerID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, quantityKey(userID), member)
		pipe.ZRem(ctx, orderKey(userID), member)
		s.touch(ctx, pipe, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int) error {
	if err := s.client.Del(ctx, quantityKey(userID), orderKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Entries(ctx context.Context, userID int) ([]models.CartEntry, error) {
	members, err := s.client.ZRange(ctx, orderKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart order: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	quantities, err := s.client.HMGet(ctx, quantityKey(userID), members...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart quantities: %w", err)
	}

	entries := make([]models.CartEntry, 0, len(members))
	for i, member := range members {
		raw, ok := quantities[i].(string)
		if !ok {
			continue
		}
		offerID, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity <= 0 {
			continue
		}
		entries = append(entries, models.CartEntry{OfferID: offerID, Quantity: quantity})
	}
	return entries, nil
}

func (s *RedisStore) touch(ctx context.Context, pipe redis.Pipeliner, userID int) {
	if s.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, quantityKey(userID), s.ttl)
	pipe.Expire(ctx, orderKey(userID), s.ttl)
}
