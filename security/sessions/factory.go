package sessions

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRepo builds a session repo for the configured driver.
// "memory" needs no options; "redis" requires a reachable address.
func NewRepo(driver, redisAddr string, ttl time.Duration) (Repo, error) {
	switch driver {
	case "", "memory":
		return NewInMemoryRepo(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		return NewRedisRepo(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported session store driver: %q", driver)
	}
}
