package config

import "time"

type ToolConfig interface {
	GetToolTimeout() time.Duration
	GetToolRetryAttempts() int
}

type Tools struct{}

var _ ToolConfig = Tools{}

func (Tools) GetToolTimeout() time.Duration {
	return time.Duration(intEnv("TOOL_TIMEOUT_SECONDS", 5)) * time.Second
}

func (Tools) GetToolRetryAttempts() int {
	return intEnv("TOOL_RETRY_ATTEMPTS", 2)
}
