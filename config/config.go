package config

import (
	"os"
	"time"
)

// ProviderConfig holds everything one provider adapter needs. Credentials
// are read from the environment exactly once, here, and injected into the
// adapters at construction.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type ValkeyConfig struct {
	Addr     string
	Password string
	TLS      bool
}

type DynamoConfig struct {
	Table string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

type Config struct {
	AppEnv   string
	HTTPAddr string

	OpenAI  ProviderConfig
	Gemini  ProviderConfig
	Mistral ProviderConfig

	Postgres PostgresConfig
	Valkey   ValkeyConfig
	Dynamo   DynamoConfig
	Kafka    KafkaConfig
}

// CacheEnabled reports whether a Valkey address was configured.
func (c Config) CacheEnabled() bool { return c.Valkey.Addr != "" }

// EventsEnabled reports whether a Kafka broker was configured.
func (c Config) EventsEnabled() bool { return c.Kafka.Broker != "" }

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Load builds the process configuration from the environment. Missing
// provider keys are not an error here; each adapter rejects an empty key
// at construction so the failure names the provider.
func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		OpenAI: ProviderConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Gemini: ProviderConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 10*time.Second),
		},
		Mistral: ProviderConfig{
			APIKey:  os.Getenv("MISTRAL_API_KEY"),
			BaseURL: getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai"),
			Model:   getEnv("MISTRAL_MODEL", "mistral-small-latest"),
			Timeout: getEnvDuration("MISTRAL_TIMEOUT", 10*time.Second),
		},

		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "deeppurple"),
		},
		Valkey: ValkeyConfig{
			Addr:     os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
		Dynamo: DynamoConfig{
			Table: getEnv("DYNAMO_COMMUNICATIONS_TABLE", "Communications"),
		},
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  getEnv("KAFKA_ANALYZED_TOPIC", "emotion.communications.analyzed"),
		},
	}
}
