// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AdminAPIKey    string   `yaml:"admin_api_key"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	GeminiKey       string        `yaml:"gemini_key"`      // primary credential (professional persona)
	GeminiDemoKey   string        `yaml:"gemini_demo_key"` // secondary credential (bestie persona, failover)
	GeminiURL       string        `yaml:"gemini_url"`
	OpenAIKey       string        `yaml:"openai_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	DefaultModel    string        `yaml:"default_model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	HistoryTokens   int           `yaml:"history_tokens"` // transcript budget per prompt
	ConcurrentLimit int           `yaml:"concurrent_limit"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret"`
	SecureCookie  bool          `yaml:"secure_cookie"`
	CookieDomain  string        `yaml:"cookie_domain"`
	TTL           time.Duration `yaml:"ttl"`
}

type QuotaConfig struct {
	TextCap  int `yaml:"text_cap"`
	VoiceCap int `yaml:"voice_cap"`
}

type DemoConfig struct {
	Secret string `yaml:"secret"` // HMAC key for the device record
	Cap    int    `yaml:"cap"`
	Mode   string `yaml:"mode"` // professional|bestie
}

type SearchConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type VisitorConfig struct {
	DedupeWindow time.Duration `yaml:"dedupe_window"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Auth      AuthConfig      `yaml:"auth"`
	Quota     QuotaConfig     `yaml:"quota"`
	Demo      DemoConfig      `yaml:"demo"`
	Search    SearchConfig    `yaml:"search"`
	Visitor   VisitorConfig   `yaml:"visitor"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 512
	}
	if cfg.AI.HistoryTokens <= 0 {
		cfg.AI.HistoryTokens = 3000
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.RequestTimeout <= 0 {
		cfg.AI.RequestTimeout = 20 * time.Second
	}
	if cfg.Auth.TTL <= 0 {
		cfg.Auth.TTL = 24 * time.Hour
	}
	if cfg.Quota.TextCap <= 0 {
		cfg.Quota.TextCap = 150
	}
	if cfg.Quota.VoiceCap <= 0 {
		cfg.Quota.VoiceCap = 80
	}
	if cfg.Demo.Cap <= 0 {
		cfg.Demo.Cap = 5
	}
	if cfg.Demo.Mode == "" {
		cfg.Demo.Mode = "bestie"
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.duckduckgo.com/"
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 5 * time.Second
	}
	if cfg.Visitor.DedupeWindow <= 0 {
		cfg.Visitor.DedupeWindow = 24 * time.Hour
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 60
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.SessionSecret == "" {
		return nil, errors.New("auth.session_secret is required")
	}
	if cfg.Demo.Secret == "" {
		return nil, errors.New("demo.secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
