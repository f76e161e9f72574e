package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserMirrorTTL bounds how long a profile mirror can outlive its user row.
const UserMirrorTTL = 24 * time.Hour

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// RedisGetJSON loads a cached value into out. Returns false on a miss or any
// decode failure, in which case the caller falls through to the database.
func RedisGetJSON(ctx context.Context, key string, out any) bool {
	rd := GetRedisClient()
	if rd == nil {
		return false
	}
	raw, err := rd.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[redis] Error reading key %s: %s\n", key, err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("[redis] Error decoding key %s: %s\n", key, err.Error())
		return false
	}
	return true
}

func RedisSetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		log.Printf("[redis] Error encoding key %s: %s\n", key, err.Error())
		return
	}
	if err := rd.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("[redis] Error writing key %s: %s\n", key, err.Error())
	}
}

// UserMirrorKey names the cached profile record for a user id.
func UserMirrorKey(userId uint) string {
	return fmt.Sprintf("user:%d", userId)
}

// DropUserMirror removes the cached profile record so the next read consults
// the database. Role changes go through here; a stale mirror would keep
// answering with the old role.
func DropUserMirror(ctx context.Context, userId uint) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(ctx, UserMirrorKey(userId)).Err(); err != nil {
		log.Printf("[redis] Error dropping user mirror %d: %s\n", userId, err.Error())
	}
}

// RedisDropPattern removes every key matching the pattern. Paginated list
// resources are cached per page, so parent invalidation has to sweep all of
// them, not just the default page.
func RedisDropPattern(ctx context.Context, pattern string) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	iter := rd.Scan(ctx, 0, pattern, 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[redis] Error scanning pattern %s: %s\n", pattern, err.Error())
		return
	}
	if len(keys) > 0 {
		if err := rd.Del(ctx, keys...).Err(); err != nil {
			log.Printf("[redis] Error dropping keys %v: %s\n", keys, err.Error())
		}
	}
}
