package config

import (
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultPersonaPrefix is the prompt preamble prepended to every reply
// template. It can be overridden through the persona file.
const DefaultPersonaPrefix = "You are a conversational agent called ShopperGPT. " +
	"Your tasks consist of providing information on the best offers on products. " +
	"You are a NataSquad.com service. You can receive chat messages or audio messages."

// Config holds all runtime settings. It is built once at startup and passed
// into every component constructor.
type Config struct {
	Port    string `yaml:"-"`
	GinMode string `yaml:"-"`

	// OpenAI-compatible completion endpoint
	OpenAIBaseURL string `yaml:"-"`
	OpenAIAPIKey  string `yaml:"-"`
	OpenAIModel   string `yaml:"-"`

	// SerpAPI (google_shopping engine)
	SerpAPIKey string `yaml:"-"`

	// Twilio (WhatsApp delivery)
	TwilioAccountSID string `yaml:"-"`
	TwilioAuthToken  string `yaml:"-"`
	TwilioNumber     string `yaml:"-"`

	// Link shortener
	ShortenerBaseURL string `yaml:"-"`

	// Per-call upstream timeouts. Generous but finite: a hung upstream call
	// must not hang the webhook forever.
	LLMTimeout     time.Duration `yaml:"-"`
	SearchTimeout  time.Duration `yaml:"-"`
	RequestTimeout time.Duration `yaml:"-"`

	ServerShutdownTimeoutSeconds int `yaml:"-"`

	// Logging
	LogLevel  string `yaml:"-"`
	LogFormat string `yaml:"-"`

	// Persona
	Persona PersonaConfig `yaml:"persona"`
}

// PersonaConfig carries the prompt persona, loadable from a YAML file.
type PersonaConfig struct {
	Prefix string `yaml:"prefix"`
}

// Load reads the environment (and an optional .env file / persona file) and
// returns the populated configuration.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// OpenAI
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:  getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),

		// SerpAPI
		SerpAPIKey: getEnvOrDefault("SERPAPI_API_KEY", ""),

		// Twilio
		TwilioAccountSID: getEnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioNumber:     getEnvOrDefault("TWILIO_NUMBER", ""),

		// Shortener
		ShortenerBaseURL: getEnvOrDefault("SHORTENER_BASE_URL", "https://da.gd"),

		// Timeouts
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		SearchTimeout:  getEnvAsDuration("SEARCH_TIMEOUT", 30*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Minute),

		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),

		Persona: PersonaConfig{
			Prefix: DefaultPersonaPrefix,
		},
	}

	// Load persona overrides from a configuration file when present.
	personaFilePath := getEnvOrDefault("PERSONA_FILE", "")
	if personaFilePath != "" {
		personaFile, err := os.Open(personaFilePath)
		if err != nil {
			return nil, err
		}
		defer personaFile.Close()

		if err := LoadPersonaFile(personaFile, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OpenAI API key is missing. Please set OPENAI_API_KEY environment variable.")
	}

	if cfg.SerpAPIKey == "" {
		log.Println("Warning: SerpAPI key is missing. Please set SERPAPI_API_KEY environment variable.")
	}

	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioNumber == "" {
		log.Println("Warning: Twilio credentials are missing. Replies will only be returned in the webhook response.")
	}

	return cfg, nil
}

// LoadPersonaFile decodes persona settings from a YAML reader into config.
func LoadPersonaFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	if config.Persona.Prefix == "" {
		config.Persona.Prefix = DefaultPersonaPrefix
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as time.Duration, using default %v: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}
