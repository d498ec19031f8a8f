package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Default event fields applied when the caller or config omits them.
const (
	DefaultSummary          = "New AI Agent Consultation"
	DefaultEventLocation    = "Client Call"
	DefaultEventDescription = "Scheduled by voice agent."
	DefaultTimeZone         = "America/New_York"
	DefaultCalendarID       = "primary"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
	Security SecurityConfig `json:"security"`
	Google   GoogleConfig   `json:"google"`
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig contains security settings.
// When APIKey is empty the scheduling and admin endpoints are open,
// matching the original single-tenant deployment.
type SecurityConfig struct {
	APIKey string `json:"api_key"`
}

// GoogleConfig contains Google Calendar API settings
type GoogleConfig struct {
	// CredentialsPath points at the OAuth client-secret JSON file.
	// CredentialsJSON takes priority when non-empty and is normally
	// injected from the GOOGLE_CALENDAR_CREDENTIALS environment variable.
	CredentialsPath string `json:"credentials_path"`
	CredentialsJSON string `json:"-"`

	// RedirectBaseURL is the externally visible base URL of this server,
	// used to build the OAuth redirect URI (base + /oauth-callback).
	RedirectBaseURL string `json:"redirect_base_url"`

	CalendarID       string `json:"calendar_id"`
	TimeZone         string `json:"time_zone"`
	EventLocation    string `json:"event_location"`
	EventDescription string `json:"event_description"`
	DefaultSummary   string `json:"default_summary"`

	// TokenStore selects the token persistence backend: "file" or "sqlite".
	TokenStore string `json:"token_store"`
	TokenPath  string `json:"token_path"`

	// RefreshIntervalMinutes enables the background token refresher
	// when positive. Zero disables it.
	RefreshIntervalMinutes int `json:"refresh_interval_minutes"`
}

// DatabaseConfig contains database settings (sqlite token store)
type DatabaseConfig struct {
	Path string `json:"path"`
}

// TelegramConfig contains settings for appointment notifications.
// Notifications are disabled when BotToken is empty.
type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   int64  `json:"chat_id"`
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port", ErrInvalidConfig)
	}

	if c.Google.CredentialsPath == "" {
		c.Google.CredentialsPath = "credentials.json"
	}

	if c.Google.RedirectBaseURL == "" {
		c.Google.RedirectBaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}

	if c.Google.CalendarID == "" {
		c.Google.CalendarID = DefaultCalendarID
	}
	if c.Google.TimeZone == "" {
		c.Google.TimeZone = DefaultTimeZone
	}
	if c.Google.EventLocation == "" {
		c.Google.EventLocation = DefaultEventLocation
	}
	if c.Google.EventDescription == "" {
		c.Google.EventDescription = DefaultEventDescription
	}
	if c.Google.DefaultSummary == "" {
		c.Google.DefaultSummary = DefaultSummary
	}

	switch c.Google.TokenStore {
	case "":
		c.Google.TokenStore = "file"
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: token_store must be \"file\" or \"sqlite\"", ErrInvalidConfig)
	}

	if c.Google.TokenStore == "file" && c.Google.TokenPath == "" {
		c.Google.TokenPath = "token.json"
	}

	if c.Google.TokenStore == "sqlite" && c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required for the sqlite token store", ErrInvalidConfig)
	}

	if c.Google.RefreshIntervalMinutes < 0 {
		return fmt.Errorf("%w: refresh_interval_minutes must not be negative", ErrInvalidConfig)
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: telegram chat_id is required when bot_token is set", ErrInvalidConfig)
	}

	return nil
}

// Load loads configuration from a JSON file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigFileNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The client-secret blob always comes from the environment, never
	// from the config file, so it cannot leak through config backups.
	config.Google.CredentialsJSON = os.Getenv("GOOGLE_CALENDAR_CREDENTIALS")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadFromEnv loads configuration from environment variables
// This is useful for containerized deployments
func LoadFromEnv() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("CALRELAY_HOST", "0.0.0.0"),
			Port: getEnvInt("PORT", 8080),
		},
		Logging: LoggingConfig{
			Level:  getEnv("CALRELAY_LOG_LEVEL", "info"),
			Format: getEnv("CALRELAY_LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			APIKey: getEnv("CALRELAY_API_KEY", ""),
		},
		Google: GoogleConfig{
			CredentialsPath:        getEnv("CALRELAY_CREDENTIALS_PATH", "credentials.json"),
			CredentialsJSON:        os.Getenv("GOOGLE_CALENDAR_CREDENTIALS"),
			RedirectBaseURL:        getEnv("CALRELAY_BASE_URL", ""),
			CalendarID:             getEnv("CALRELAY_CALENDAR_ID", DefaultCalendarID),
			TimeZone:               getEnv("CALRELAY_TIME_ZONE", DefaultTimeZone),
			EventLocation:          getEnv("CALRELAY_EVENT_LOCATION", DefaultEventLocation),
			EventDescription:       getEnv("CALRELAY_EVENT_DESCRIPTION", DefaultEventDescription),
			DefaultSummary:         getEnv("CALRELAY_DEFAULT_SUMMARY", DefaultSummary),
			TokenStore:             getEnv("CALRELAY_TOKEN_STORE", "file"),
			TokenPath:              getEnv("CALRELAY_TOKEN_PATH", "token.json"),
			RefreshIntervalMinutes: getEnvInt("CALRELAY_REFRESH_INTERVAL_MINUTES", 0),
		},
		Database: DatabaseConfig{
			Path: getEnv("CALRELAY_DB_PATH", "./calrelay.db"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("CALRELAY_TELEGRAM_TOKEN", ""),
			ChatID:   getEnvInt64("CALRELAY_TELEGRAM_CHAT_ID", 0),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		fmt.Sscanf(value, "%d", &intVal)
		return intVal
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var intVal int64
		fmt.Sscanf(value, "%d", &intVal)
		return intVal
	}
	return defaultValue
}
