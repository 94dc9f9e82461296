package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvConfigPath  = "FOODPLATES_CONFIG"
	EnvAPIURL      = "FOODPLATES_API_URL"
	EnvAddr        = "FOODPLATES_ADDR"
	EnvDBPath      = "FOODPLATES_DB_PATH"
	EnvDatabaseURL = "FOODPLATES_DATABASE_URL"
	EnvLogLevel    = "FOODPLATES_LOG_LEVEL"
	EnvAgentKey    = "OPENROUTER_API_KEY"

	DefaultPath = "foodplates.toml"
)

type Config struct {
	Server ServerConfig
	Client ClientConfig
	Agent  AgentConfig
	Log    LogConfig
}

// ServerConfig drives the dev backend that serves /foods.
type ServerConfig struct {
	Addr        string
	DBPath      string
	SeedPath    string
	Watch       bool
	DatabaseURL string
}

// ClientConfig drives the terminal dashboard.
type ClientConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	LogFile        string
	Currency       string
}

type AgentConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type LogConfig struct {
	Level string
}

// Enabled reports whether description drafting can reach a model.
func (a AgentConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// foodplates.toml key mapping.
type fileConfig struct {
	Server struct {
		Addr        string `toml:"addr"`
		DBPath      string `toml:"db_path"`
		SeedPath    string `toml:"seed_path"`
		Watch       bool   `toml:"watch"`
		DatabaseURL string `toml:"database_url"`
	} `toml:"server"`
	Client struct {
		APIURL         string `toml:"api_url"`
		RequestTimeout string `toml:"request_timeout"`
		LogFile        string `toml:"log_file"`
		Currency       string `toml:"currency"`
	} `toml:"client"`
	Agent struct {
		BaseURL string `toml:"base_url"`
		Model   string `toml:"model"`
		APIKey  string `toml:"api_key"`
	} `toml:"agent"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":3333",
			DBPath:   "data/db.json",
			SeedPath: "data/seed.csv",
			Watch:    true,
		},
		Client: ClientConfig{
			APIURL:   "http://localhost:3333",
			LogFile:  "dashboard.log",
			Currency: "R$",
		},
		Agent: AgentConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "deepseek/deepseek-r1-distill-llama-70b",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path resolves the config file location: explicit argument, then env, then the
// default file name.
func Path(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads .env (if any), overlays the TOML file at path on the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: .env: %w", err)
	}

	cfg := Default()
	if err := overlayFile(&cfg, path); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "db_path") {
		cfg.Server.DBPath = strings.TrimSpace(raw.Server.DBPath)
	}
	if meta.IsDefined("server", "seed_path") {
		cfg.Server.SeedPath = strings.TrimSpace(raw.Server.SeedPath)
	}
	if meta.IsDefined("server", "watch") {
		cfg.Server.Watch = raw.Server.Watch
	}
	if meta.IsDefined("server", "database_url") {
		cfg.Server.DatabaseURL = strings.TrimSpace(raw.Server.DatabaseURL)
	}
	if meta.IsDefined("client", "api_url") {
		cfg.Client.APIURL = strings.TrimSpace(raw.Client.APIURL)
	}
	if meta.IsDefined("client", "request_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Client.RequestTimeout))
		if err != nil {
			return fmt.Errorf("load config %s: client.request_timeout: %w", path, err)
		}
		cfg.Client.RequestTimeout = d
	}
	if meta.IsDefined("client", "log_file") {
		cfg.Client.LogFile = strings.TrimSpace(raw.Client.LogFile)
	}
	if meta.IsDefined("client", "currency") {
		cfg.Client.Currency = strings.TrimSpace(raw.Client.Currency)
	}
	if meta.IsDefined("agent", "base_url") {
		cfg.Agent.BaseURL = strings.TrimSpace(raw.Agent.BaseURL)
	}
	if meta.IsDefined("agent", "model") {
		cfg.Agent.Model = strings.TrimSpace(raw.Agent.Model)
	}
	if meta.IsDefined("agent", "api_key") {
		cfg.Agent.APIKey = strings.TrimSpace(raw.Agent.APIKey)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	return nil
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(EnvAPIURL, &cfg.Client.APIURL)
	set(EnvAddr, &cfg.Server.Addr)
	set(EnvDBPath, &cfg.Server.DBPath)
	set(EnvDatabaseURL, &cfg.Server.DatabaseURL)
	set(EnvLogLevel, &cfg.Log.Level)
	set(EnvAgentKey, &cfg.Agent.APIKey)
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.DatabaseURL == "" && strings.TrimSpace(cfg.Server.DBPath) == "" {
		return fmt.Errorf("server.db_path is required when server.database_url is empty")
	}
	u, err := url.Parse(cfg.Client.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.api_url %q must be an absolute URL", cfg.Client.APIURL)
	}
	if cfg.Client.RequestTimeout < 0 {
		return fmt.Errorf("client.request_timeout must not be negative")
	}
	if cfg.Agent.Enabled() && strings.TrimSpace(cfg.Agent.Model) == "" {
		return fmt.Errorf("agent.model is required when an agent key is set")
	}
	return nil
}
