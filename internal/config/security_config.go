package config

import "time"

type SecurityConfig interface {
	GetSessionTimeout() time.Duration
	GetMaxFailedAttempts() int
	GetRateLimitRequests() int
	GetRateLimitWindow() time.Duration
	GetMaxInputLength() int
	GetMaxHistoryLength() int
	GetAmountMaskThreshold() float64
	GetSessionStoreDriver() string
	GetRedisAddr() string
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionTimeout() time.Duration {
	return time.Duration(intEnv("SESSION_TIMEOUT_MINUTES", 15)) * time.Minute
}

func (Security) GetMaxFailedAttempts() int {
	return intEnv("MAX_FAILED_AUTH_ATTEMPTS", 3)
}

func (Security) GetRateLimitRequests() int {
	return intEnv("RATE_LIMIT_REQUESTS", 30)
}

func (Security) GetRateLimitWindow() time.Duration {
	return time.Duration(intEnv("RATE_LIMIT_WINDOW_MINUTES", 1)) * time.Minute
}

func (Security) GetMaxInputLength() int {
	return intEnv("MAX_INPUT_LENGTH", 2000)
}

func (Security) GetMaxHistoryLength() int {
	return intEnv("MAX_CONVERSATION_HISTORY", 50)
}

func (Security) GetAmountMaskThreshold() float64 {
	return floatEnv("AMOUNT_MASK_THRESHOLD", 1000)
}

// GetSessionStoreDriver selects the session store backend: "memory" (default)
// or "redis". In-memory is the designed model; a restart clears all sessions.
func (Security) GetSessionStoreDriver() string {
	return GetEnv("SESSION_STORE_DRIVER", "memory")
}

func (Security) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}
