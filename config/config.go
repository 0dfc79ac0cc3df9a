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

type Config struct {
	Source    SourceConfig
	Scheduler SchedulerConfig
	Scanner   ScannerConfig
	Telegram  TelegramConfig
	Notify    NotifyConfig
	Report    ReportConfig
	Prune     PruneConfig
	DBPath    string
	PgURL     string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type ScannerConfig struct {
	DelayMS    int
	TimeoutSec int
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type NotifyConfig struct {
	Desktop bool
	Sound   bool
}

type ReportConfig struct {
	Dir           string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKeyID string
	S3SecretKey   string
}

type PruneConfig struct {
	TTL      time.Duration
	Interval time.Duration
}

// SourceConfig describes the monitored site. Loaded from a YAML file so
// URL patterns and markup-dependent knobs can change without a rebuild.
type SourceConfig struct {
	Name           string            `yaml:"name"`
	BaseURL        string            `yaml:"base_url"`
	CatalogPath    string            `yaml:"catalog_path"`
	ResidencePath  string            `yaml:"residence_path"`
	FragmentHost   string            `yaml:"fragment_host"`
	PostalPrefixes []string          `yaml:"postal_prefixes"`
	ExcludeFilter  string            `yaml:"exclude_filter"`
	BrandSubstring string            `yaml:"brand_substring"`
	Fallback       string            `yaml:"fallback"`
	Fetcher        string            `yaml:"fetcher"`
	Headers        map[string]string `yaml:"headers"`
}

// CatalogURL returns the absolute catalog endpoint.
func (s *SourceConfig) CatalogURL() string {
	return s.BaseURL + s.CatalogPath
}

// ResidenceURL returns the public detail-page URL for a residence id.
func (s *SourceConfig) ResidenceURL(id string) string {
	return s.BaseURL + strings.Replace(s.ResidencePath, "{id}", id, 1)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Scanner: ScannerConfig{
			DelayMS:    getEnvInt("SCAN_DELAY_MS", 500),
			TimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 30),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		},
		Notify: NotifyConfig{
			Desktop: os.Getenv("NOTIFY_DESKTOP") == "true",
			Sound:   os.Getenv("NOTIFY_SOUND") == "true",
		},
		Report: ReportConfig{
			Dir:           getEnv("REPORT_DIR", "public"),
			S3Bucket:      os.Getenv("REPORT_S3_BUCKET"),
			S3Region:      getEnv("REPORT_S3_REGION", "eu-west-3"),
			S3Endpoint:    os.Getenv("REPORT_S3_ENDPOINT"),
			S3AccessKeyID: os.Getenv("REPORT_S3_ACCESS_KEY_ID"),
			S3SecretKey:   os.Getenv("REPORT_S3_SECRET_KEY"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCAN_CRON"),
		},
		DBPath: getEnv("DB_PATH", "habitat_watch.db"),
		PgURL:  os.Getenv("POSTGRES_URL"),
	}

	if interval := os.Getenv("SCAN_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if ttl := os.Getenv("SNAPSHOT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err == nil {
			cfg.Prune.TTL = d
			cfg.Prune.Interval = 6 * time.Hour
		}
	}

	path := getEnv("SOURCE_CONFIG", "config/source.yaml")
	if err := cfg.loadSource(path); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSource(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source config: %w", err)
	}

	if err := yaml.Unmarshal(data, &c.Source); err != nil {
		return fmt.Errorf("parse source config: %w", err)
	}

	if c.Source.BaseURL == "" {
		return fmt.Errorf("source config %s: base_url is required", path)
	}
	if len(c.Source.PostalPrefixes) == 0 {
		return fmt.Errorf("source config %s: postal_prefixes is required", path)
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
