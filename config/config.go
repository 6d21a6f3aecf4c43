package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is the JSON config file read by the server binary.
const DefaultPath = "config/config.json"

// AppConfig holds file and environment driven configuration values.
type AppConfig struct {
	AppPort        string
	AllowedOrigins []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Image storage and upload limits
	UploadDir          string
	UploadMaxFileSize  int64
	UploadAllowedTypes []string
	// Upstream quote API
	QuoteURL     string
	QuoteTimeout time.Duration
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// defaults mirror the behaviour of the service when nothing is configured.
var defaults = map[string]any{
	"app.port":             "3001",
	"app.allowed_origins":  []string{"*"},
	"gin.mode":             "release",
	"gin.log_path":         "logs/gin.log",
	"upload.dir":           "uploads",
	"upload.max_file_size": int64(5 * 1024 * 1024),
	"upload.allowed_types": []string{"image/jpeg", "image/jpg", "image/png"},
	"quote.url":            "https://zenquotes.io/api/random",
	"quote.timeout":        time.Duration(0),
	"log.level":            "info",
	"log.path":             "logs/app.log",
	"log.max_size_mb":      100,
	"log.max_backups":      3,
	"log.max_age_days":     7,
	"log.compress":         false,
}

var envKeys = map[string]string{
	"app.port":             "APP_PORT",
	"app.allowed_origins":  "CORS_ALLOWED_ORIGINS",
	"gin.mode":             "GIN_MODE",
	"gin.log_path":         "GIN_PATH",
	"upload.dir":           "UPLOAD_DIR",
	"upload.max_file_size": "UPLOAD_MAX_FILE_SIZE",
	"upload.allowed_types": "UPLOAD_ALLOWED_TYPES",
	"quote.url":            "QUOTE_API_URL",
	"quote.timeout":        "QUOTE_TIMEOUT",
	"log.level":            "LOG_LEVEL",
	"log.path":             "LOG_PATH",
	"log.max_size_mb":      "LOG_MAX_SIZE_MB",
	"log.max_backups":      "LOG_MAX_BACKUPS",
	"log.max_age_days":     "LOG_MAX_AGE_DAYS",
	"log.compress":         "LOG_COMPRESS",
}

// Load reads configuration once during boot.
//
// Precedence: environment variables -> JSON file at path -> defaults. A .env
// file in the working directory, when present, is loaded into the environment
// first. A missing JSON file is not an error; malformed JSON is.
func Load(path string) (AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if err := readConfigFile(v, path); err != nil {
		return AppConfig{}, err
	}

	cfg := AppConfig{
		AppPort:            v.GetString("app.port"),
		AllowedOrigins:     readList(v, "app.allowed_origins"),
		GinMode:            v.GetString("gin.mode"),
		GinPath:            v.GetString("gin.log_path"),
		UploadDir:          v.GetString("upload.dir"),
		UploadMaxFileSize:  v.GetInt64("upload.max_file_size"),
		UploadAllowedTypes: readList(v, "upload.allowed_types"),
		QuoteURL:           v.GetString("quote.url"),
		QuoteTimeout:       v.GetDuration("quote.timeout"),
		LogLevel:           v.GetString("log.level"),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.max_size_mb"),
		LogMaxBackups:      v.GetInt("log.max_backups"),
		LogMaxAgeDays:      v.GetInt("log.max_age_days"),
		LogCompress:        v.GetBool("log.compress"),
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c AppConfig) Validate() error {
	if c.AppPort == "" {
		return errors.New("config: app.port must be set")
	}
	if c.UploadDir == "" {
		return errors.New("config: upload.dir must be set")
	}
	if c.UploadMaxFileSize <= 0 {
		return fmt.Errorf("config: upload.max_file_size must be positive, got %d", c.UploadMaxFileSize)
	}
	if len(c.UploadAllowedTypes) == 0 {
		return errors.New("config: upload.allowed_types must not be empty")
	}
	if c.QuoteURL == "" {
		return errors.New("config: quote.url must be set")
	}
	if c.QuoteTimeout < 0 {
		return fmt.Errorf("config: quote.timeout must not be negative, got %s", c.QuoteTimeout)
	}
	return validateOrigins(c.AllowedOrigins)
}

// AllowAllOrigins reports whether CORS should answer every origin with "*".
func (c AppConfig) AllowAllOrigins() bool {
	return len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == "*"
}

func validateOrigins(origins []string) error {
	if len(origins) == 0 {
		return errors.New("config: app.allowed_origins must not be empty")
	}
	if len(origins) == 1 && origins[0] == "*" {
		return nil
	}
	for _, o := range origins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("config: bad origin %q, want \"*\" alone or an http(s):// origin", o)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// readList accepts a JSON array from the config file or a comma separated
// environment value.
func readList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitAndTrim(raw)
	}
	return splitAndTrim(strings.Join(v.GetStringSlice(key), ","))
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
