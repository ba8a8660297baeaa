package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr  string
	Database  DatabaseConfig
	Firecrawl FirecrawlConfig
	Gemini    GeminiConfig
	Webhook   WebhookConfig
	RunDBPath string
	MediaDir  string
	LogSize   int
	Locations []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

type FirecrawlConfig struct {
	APIKey string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type WebhookConfig struct {
	URL string
}

// defaultLocations are the target cities cycled through when no
// config/locations.yaml is present.
var defaultLocations = []string{
	"Bali",
	"Jakarta",
	"Bandung",
	"Yogyakarta",
	"Surabaya",
	"Semarang",
	"Malang",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_DATABASE", "hotel_agent_db"),
			User:     getEnv("DB_USERNAME", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Firecrawl: FirecrawlConfig{
			APIKey: os.Getenv("FIRECRAWL_API_KEY"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Webhook: WebhookConfig{
			URL: os.Getenv("MAKE_WEBHOOK_URL"),
		},
		RunDBPath: getEnv("RUN_DB_PATH", "bot.db"),
		MediaDir:  getEnv("MEDIA_DIR", "output/images"),
		LogSize:   getEnvInt("LOG_BUFFER_SIZE", 50),
		Locations: defaultLocations,
	}

	if err := cfg.loadLocations(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN builds the Postgres connection string, quoting the password so special
// characters survive.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, url.QueryEscape(d.Password), d.Host, d.Port, d.Name)
}

func (c *Config) loadLocations() error {
	path := getEnv("LOCATIONS_PATH", "config/locations.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var file struct {
		Locations []string `yaml:"locations"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Locations) > 0 {
		c.Locations = file.Locations
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
