package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	SessionSecret string

	JWTSecret string
	TokenTTL  time.Duration

	GinMode     string
	Port        string
	CORSOrigins []string
	FrontendURL string

	OpenAIAPIKey   string
	GoogleClientID string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	LogLevel string
	LogFile  string
}

// Development-only secrets. Release mode refuses to start with them.
const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

var defaults = map[string]any{
	"DB_DRIVER":        "mysql",
	"DB_PATH":          "teamboard.db",
	"DB_HOST":          "localhost",
	"DB_PORT":          "3306",
	"DB_USER":          "taskuser",
	"DB_PASSWORD":      "taskpassword",
	"DB_NAME":          "teamboard",
	"REDIS_HOST":       "",
	"REDIS_PORT":       "6379",
	"SESSION_SECRET":   defaultSessionSecret,
	"JWT_SECRET":       defaultJWTSecret,
	"TOKEN_TTL":        "168h",
	"GIN_MODE":         "debug",
	"PORT":             "8080",
	"CORS_ORIGINS":     "http://localhost:3000",
	"FRONTEND_URL":     "http://localhost:3000",
	"OPENAI_API_KEY":   "",
	"GOOGLE_CLIENT_ID": "",
	"SMTP_HOST":        "",
	"SMTP_PORT":        "587",
	"SMTP_USER":        "",
	"SMTP_PASS":        "",
	"SMTP_FROM":        "",
	"LOG_LEVEL":        "info",
	"LOG_FILE":         "",
}

// Load reads configuration from defaults, an optional YAML file and the environment,
// in increasing order of precedence. File keys are the lower-cased variable names (db_host, ...).
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:         v.GetString("DB_PATH"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		RedisHost:      v.GetString("REDIS_HOST"),
		RedisPort:      v.GetString("REDIS_PORT"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		GinMode:        v.GetString("GIN_MODE"),
		Port:           v.GetString("PORT"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		FrontendURL:    strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		GoogleClientID: v.GetString("GOOGLE_CLIENT_ID"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetString("SMTP_PORT"),
		SMTPUser:       v.GetString("SMTP_USER"),
		SMTPPass:       v.GetString("SMTP_PASS"),
		SMTPFrom:       v.GetString("SMTP_FROM"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFile:        v.GetString("LOG_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RedisAddr returns host:port of the session store, or "" when sessions are cookie backed.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in release mode")
		}
		if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be set in release mode")
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
