package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderGoogle      = "google"

	DefaultHFAPIURL    = "https://api-inference.huggingface.co/models/xlm-roberta-large-finetuned-conll03-english"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type HuggingFaceConfig struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type GoogleConfig struct {
	// base64 encoded service account JSON
	Credentials string
}

type AggregationConfig struct {
	PersonLabels []string
	MinNameRunes int
}

// Config is built once at startup and passed down explicitly. Nothing reads
// the environment after Load returns.
type Config struct {
	Port             string
	Provider         string
	StaticDir        string
	KeepWarmSchedule string

	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig
	Google      GoogleConfig
	Aggregation AggregationConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		Provider:         strings.ToLower(getEnv("NER_PROVIDER", ProviderHuggingFace)),
		StaticDir:        getEnv("STATIC_DIR", "web"),
		KeepWarmSchedule: getEnv("KEEP_WARM_SCHEDULE", ""),
		HuggingFace: HuggingFaceConfig{
			Token:   getEnv("HF_TOKEN", ""),
			APIURL:  getEnv("HF_API_URL", DefaultHFAPIURL),
			Timeout: time.Duration(getEnvInt("HF_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout: time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Google: GoogleConfig{
			Credentials: getEnv("NATURAL_LANGUAGE_CREDENTIALS", ""),
		},
		Aggregation: AggregationConfig{
			PersonLabels: getEnvList("NER_PERSON_LABELS", []string{"PER", "PERSON"}),
			MinNameRunes: getEnvInt("NER_MIN_NAME_RUNES", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with. A missing
// credential is not one of them: it surfaces per request instead.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("unknown NER_PROVIDER %q", c.Provider)
	}
	if c.HuggingFace.Timeout <= 0 {
		return fmt.Errorf("HF_TIMEOUT_SECONDS must be positive")
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT_SECONDS must be positive")
	}
	if c.Aggregation.MinNameRunes < 0 {
		return fmt.Errorf("NER_MIN_NAME_RUNES must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
		log.Printf("Ignoring invalid %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
