package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Demo engine
	DefaultBusinessType string
	SessionIdleTTL      time.Duration
	ResetOnTypeSwitch   bool
	TypingCharDelay     time.Duration
	TypingStartDelay    time.Duration
	TypingGranularity   string
	FieldFlashDuration  time.Duration

	// Completion service
	LLMProvider     string
	LLMTimeout      time.Duration
	LLMMaxTokens    int
	LLMTemperature  float64
	BedrockModelID  string
	GeminiAPIKey    string
	GeminiModelID   string

	// AWS (Bedrock)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Rate limiting
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DefaultBusinessType: getEnv("DEMO_DEFAULT_BUSINESS_TYPE", "plumbing"),
		SessionIdleTTL:      getEnvAsDuration("DEMO_SESSION_IDLE_TTL", 30*time.Minute),
		ResetOnTypeSwitch:   getEnvAsBool("DEMO_RESET_ON_TYPE_SWITCH", false),
		TypingCharDelay:     getEnvAsDuration("DEMO_TYPING_CHAR_DELAY", 45*time.Millisecond),
		TypingStartDelay:    getEnvAsDuration("DEMO_TYPING_START_DELAY", 500*time.Millisecond),
		TypingGranularity:   getEnv("DEMO_TYPING_GRANULARITY", "char"),
		FieldFlashDuration:  getEnvAsDuration("DEMO_FIELD_FLASH_DURATION", 600*time.Millisecond),

		LLMProvider:    strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "auto"))),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 10*time.Second),
		LLMMaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 150),
		LLMTemperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
