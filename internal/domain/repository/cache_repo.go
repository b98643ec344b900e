package repository

import "time"

// CacheRepository defines the cache operations used for leaderboard reads.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	Exists(key string) (bool, error)
}
