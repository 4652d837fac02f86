package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AGRIDASH"

// Config is built once at process start and handed to each component.
type Config struct {
	Server    Server
	Data      Data
	Warehouse Warehouse
	LLM       LLM
	Log       Log
}

type Server struct {
	Host            string
	Port            int
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// Data locates the raw dataset tree.
type Data struct {
	Dir            string
	AirQualityFile string
	// Cache keeps each category's table for the process lifetime.
	Cache bool
}

type Warehouse struct {
	Driver string // duckdb | postgres
	Path   string // duckdb file
	DSN    string // postgres connection string
}

type LLM struct {
	Provider string // gemini | huggingface | openai | ollama
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

type Log struct {
	Level  string
	Format string // json | console
}

// Addr is the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads an optional .env file, then a config file if given, then
// AGRIDASH_* environment variables over built-in defaults.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// a missing default .env is fine
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Server: Server{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			MaxUploadBytes:  v.GetInt64("server.max_upload_bytes"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Data: Data{
			Dir:            v.GetString("data.dir"),
			AirQualityFile: v.GetString("data.air_quality_file"),
			Cache:          v.GetBool("data.cache"),
		},
		Warehouse: Warehouse{
			Driver: strings.ToLower(v.GetString("warehouse.driver")),
			Path:   v.GetString("warehouse.path"),
			DSN:    v.GetString("warehouse.dsn"),
		},
		LLM: LLM{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Model:    v.GetString("llm.model"),
			APIKey:   v.GetString("llm.api_key"),
			BaseURL:  v.GetString("llm.base_url"),
			Timeout:  v.GetDuration("llm.timeout"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = fallbackKey(v, cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("data.dir", "data/raw/datasets")
	v.SetDefault("data.air_quality_file", "Air Quality in INDIA.csv")
	v.SetDefault("data.cache", false)

	v.SetDefault("warehouse.driver", "duckdb")
	v.SetDefault("warehouse.path", "db/warehouse.duckdb")
	v.SetDefault("warehouse.dsn", "")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// fallbackKey honours the provider-specific variable names the dashboard
// has always used.
func fallbackKey(v *viper.Viper, provider string) string {
	var names []string
	switch provider {
	case "gemini":
		names = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	case "openai":
		names = []string{"OPENAI_API_KEY"}
	case "huggingface":
		names = []string{"HUGGINGFACEHUB_API_TOKEN"}
	}
	names = append(names, "API_KEY")
	for _, n := range names {
		_ = v.BindEnv("fallback."+strings.ToLower(n), n)
		if key := v.GetString("fallback." + strings.ToLower(n)); key != "" {
			return key
		}
	}
	return ""
}

// DefaultModel is the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-pro"
	case "openai":
		return "gpt-4o-mini"
	case "ollama":
		return "llama3"
	case "huggingface":
		return "mistralai/Mistral-7B-Instruct-v0.2"
	}
	return ""
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Data.AirQualityFile == "" {
		return fmt.Errorf("air quality file name is required")
	}
	switch c.Warehouse.Driver {
	case "duckdb":
		if c.Warehouse.Path == "" {
			return fmt.Errorf("warehouse path is required for the duckdb driver")
		}
	case "postgres":
		if c.Warehouse.DSN == "" {
			return fmt.Errorf("warehouse DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("warehouse driver must be 'duckdb' or 'postgres', got %q", c.Warehouse.Driver)
	}
	switch c.LLM.Provider {
	case "gemini", "huggingface", "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Log.Format)
	}
	return nil
}
