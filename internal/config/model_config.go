package config

import "strconv"

type ModelConfig interface {
	GetModelProvider() string
	GetModelName() string
	GetModelAPIKey() string
	GetModelTemperature() float64
	GetModelMaxTokens() int
	GetModelTopP() float64
	GetModelTopK() int
}

type Model struct{}

var _ ModelConfig = Model{}

func (Model) GetModelProvider() string {
	return GetEnv("MODEL_PROVIDER", "gemini")
}

func (Model) GetModelName() string {
	return GetEnv("MODEL_NAME", "gemini-2.5-flash")
}

func (Model) GetModelAPIKey() string {
	return GetEnv("GEMINI_API_KEY", "")
}

func (Model) GetModelTemperature() float64 {
	return floatEnv("MODEL_TEMPERATURE", 0.7)
}

func (Model) GetModelMaxTokens() int {
	return intEnv("MODEL_MAX_TOKENS", 2048)
}

func (Model) GetModelTopP() float64 {
	return floatEnv("MODEL_TOP_P", 0.95)
}

func (Model) GetModelTopK() int {
	return intEnv("MODEL_TOP_K", 40)
}

func intEnv(envVar string, defaultValue int) int {
	v, err := strconv.Atoi(GetEnv(envVar, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func floatEnv(envVar string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(GetEnv(envVar, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
