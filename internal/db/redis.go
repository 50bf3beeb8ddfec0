package db

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	config "github.com/Baratelli/BaratelliMayorista/configs"
)

// RDB caches the public catalog. Nil when REDIS_ADDR is unset; callers must
// check before use.
var RDB *redis.Client

func InitRedis() {
	cfg := config.LoadRedisConfig()
	if cfg.Addr == "" {
		log.Println("REDIS_ADDR not set, catalog cache disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		PoolSize:     20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}
