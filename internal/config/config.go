package config

type Config interface {
	EnvConfig
	ModelConfig
	SecurityConfig
	RetrievalConfig
	ToolConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetAllowedOrigins() string
	GetConversationTokenSecret() string
}

type mainConfig struct {
	EnvVars
	Model
	Security
	Retrieval
	Tools
}

func New() Config {
	return mainConfig{}
}
