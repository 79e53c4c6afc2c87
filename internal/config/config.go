package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort         string `yaml:"app_port"`
	AppEnv          string `yaml:"app_env"`
	AppBaseURL      string `yaml:"app_base_url"`
	DBDSN           string `yaml:"db_dsn"`
	RedisURL        string `yaml:"redis_url"`
	JWTSecret       string `yaml:"jwt_secret"`
	JWTExpiresMin   int    `yaml:"jwt_expires_min"`
	GoogleClientID  string `yaml:"google_client_id"`
	GoogleSecret    string `yaml:"google_client_secret"`
	GoogleRedirect  string `yaml:"google_redirect_url"`
	FrontendBaseURL string `yaml:"frontend_base_url"`
	CORSOrigins     string `yaml:"cors_origins"`
	UploadDir       string `yaml:"upload_dir"`
	RateLimitMax    int    `yaml:"rate_limit_max"`

	Mail   MailConfig   `yaml:"mail"`
	Notify NotifyConfig `yaml:"notify"`
}

type MailConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

type NotifyConfig struct {
	SweepSpec   string `yaml:"sweep_spec"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// Load reads the environment, then overlays the YAML file at path when given.
func Load(path string) (Config, error) {
	cfg := Config{
		AppPort:         get("APP_PORT", "8080"),
		AppEnv:          get("APP_ENV", "development"),
		AppBaseURL:      get("APP_BASE_URL", ""),
		DBDSN:           get("DB_DSN", ""),
		RedisURL:        get("REDIS_URL", ""),
		JWTSecret:       get("JWT_SECRET", ""),
		JWTExpiresMin:   getInt("JWT_EXPIRES_MIN", 10080),
		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
		CORSOrigins:     get("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000"),
		UploadDir:       get("UPLOAD_DIR", "./uploads"),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 120),
		Mail: MailConfig{
			APIURL: get("MAIL_API_URL", ""),
			APIKey: get("MAIL_API_KEY", ""),
			From:   get("MAIL_FROM", "DevHire <no-reply@devhire.local>"),
		},
		Notify: NotifyConfig{
			SweepSpec:   get("NOTIFY_SWEEP_SPEC", "@every 1m"),
			MaxAttempts: getInt("NOTIFY_MAX_ATTEMPTS", 5),
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) validate() error {
	var missing []string
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config: %s", strings.Join(missing, ", "))
	}
	if c.JWTExpiresMin <= 0 {
		return fmt.Errorf("JWT_EXPIRES_MIN must be positive, got %d", c.JWTExpiresMin)
	}
	return nil
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
