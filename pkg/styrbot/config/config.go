// Package config loads the styrbot configuration from the environment,
// an optional .env file, and an optional config.yaml. Secrets can also
// come from the OS keyring (see secrets.go).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the bot needs at runtime.
type Config struct {
	// Name is the assistant name used in log lines and the setup wizard.
	Name string `yaml:"name"`

	// ServerURL is the Mattermost server base URL (MATTERMOST_SERVER_URL).
	ServerURL string `yaml:"server_url"`

	// BotToken is the Mattermost bot token (MATTERMOST_BOT_TOKEN).
	// Never written to config.yaml.
	BotToken string `yaml:"-"`

	// GeminiAPIKey is the generative backend key (GEMINI_API_KEY).
	// Never written to config.yaml.
	GeminiAPIKey string `yaml:"-"`

	// Model is the Gemini model used for replies and summaries.
	Model string `yaml:"model"`

	// SystemPrompt is the base system instruction for the assistant.
	SystemPrompt string `yaml:"system_prompt"`

	// GoogleCredentials is the path to the Google service-account JSON
	// (GOOGLE_APPLICATION_CREDENTIALS).
	GoogleCredentials string `yaml:"google_credentials"`

	// DriveFolderID is the board folder searched and written to
	// (GOOGLE_DRIVE_FOLDER_ID).
	DriveFolderID string `yaml:"drive_folder_id"`

	// CalendarID is the default calendar for meeting sync. The runtime
	// override file (see runtime.go) takes precedence when present.
	CalendarID string `yaml:"calendar_id"`

	// DefaultAttendee is appended to every meeting's attendee list when set.
	DefaultAttendee string `yaml:"default_attendee"`

	// SweepInterval is how often the reminder sweeper runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// ReminderWindowDays is the reminder lead time in days.
	ReminderWindowDays int `yaml:"reminder_window_days"`

	// DataDir holds the durable JSON files (meetings, introduced channels,
	// runtime overrides).
	DataDir string `yaml:"data_dir"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with the defaults applied.
func Default() Config {
	return Config{
		Name:               "styrbot",
		Model:              "gemini-2.0-flash",
		SystemPrompt:       defaultSystemPrompt,
		SweepInterval:      12 * time.Hour,
		ReminderWindowDays: 7,
		DataDir:            ".",
	}
}

// defaultSystemPrompt is the board-assistant instruction sent with every
// generative request.
const defaultSystemPrompt = `Du är en hjälpsam assistent för elevkårens styrelse.
Din uppgift är att hjälpa styrelsemedlemmar med:
- Mötesprotokoll och dokumentation
- Planering av evenemang och aktiviteter
- Budgetfrågor och ekonomihantering
- Stadgar och regelverk
- Kommunikation med medlemmar
- Projekthantering och uppföljning

Du kan också hjälpa till att:
- Söka i Google Drive genom att användaren skriver "sök efter [sökord]"
- Sammanfatta dokument genom att användaren skriver "sammanfatta dokument [dokument-URL eller namn]"

Var professionell, koncis och fokuserad på att hjälpa styrelsen att arbeta effektivt.
Föreslå konkreta lösningar och tillvägagångssätt när det är lämpligt.
Om du inte vet svaret på en specifik fråga om elevkårens interna processer,
var tydlig med det och föreslå hur styrelsemedlemmen kan hitta informationen.`

// MissingError is returned by Load when required settings are absent.
// The process must not start without them.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Vars, ", "))
}

// Load builds the configuration. Order: defaults, config.yaml (when
// configPath is non-empty or ./config.yaml exists), .env, environment
// variables, OS keyring for secrets. Environment always wins over the file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		}
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	applyEnv(&cfg)

	cfg.BotToken = ResolveSecret(keyBotToken, "MATTERMOST_BOT_TOKEN", cfg.BotToken)
	cfg.GeminiAPIKey = ResolveSecret(keyGeminiAPIKey, "GEMINI_API_KEY", cfg.GeminiAPIKey)

	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setString(&cfg.ServerURL, "MATTERMOST_SERVER_URL")
	setString(&cfg.Model, "GEMINI_MODEL")
	setString(&cfg.GoogleCredentials, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.DriveFolderID, "GOOGLE_DRIVE_FOLDER_ID")
	setString(&cfg.CalendarID, "GOOGLE_CALENDAR_ID")
	setString(&cfg.DefaultAttendee, "MEETING_DEFAULT_ATTENDEE")
	setString(&cfg.DataDir, "STYRBOT_DATA_DIR")

	if v := os.Getenv("REMINDER_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}
	if v := os.Getenv("REMINDER_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReminderWindowDays = n
		}
	}
}

// Validate checks that the settings required by `serve` are present.
func (c *Config) Validate() error {
	var missing []string
	if c.BotToken == "" {
		missing = append(missing, "MATTERMOST_BOT_TOKEN")
	}
	if c.ServerURL == "" {
		missing = append(missing, "MATTERMOST_SERVER_URL")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}
