package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the explicit configuration struct constructed once at startup
// and passed by reference to every component that needs it.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Embedder EmbedderConfig `mapstructure:"embedder"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Chunker  ChunkerConfig  `mapstructure:"chunker"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	EnableUI    bool     `mapstructure:"enable_ui"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type EmbedderConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	VectorSize int    `mapstructure:"vector_size"`
}

type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	Collection string `mapstructure:"collection"`
}

type ChunkerConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	Overlap   int `mapstructure:"overlap"`
}

// TracingConfig mirrors the two optional tracing settings. Tracing is only
// enabled when both the key and the project are present.
type TracingConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Project  string `mapstructure:"project"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load reads skycast.toml (explicit path, cwd, then ~/.skycast/) with
// defaults and environment overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		abs, _ := filepath.Abs(configPath)
		v.SetConfigFile(abs)
	} else if _, err := os.Stat("skycast.toml"); err == nil {
		abs, _ := filepath.Abs("skycast.toml")
		v.SetConfigFile(abs)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.SetConfigFile(filepath.Join(home, ".skycast", "skycast.toml"))
		} else {
			v.SetConfigFile("skycast.toml")
		}
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		// Default config file is optional; continue with defaults and env.
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7130)
	v.SetDefault("server.enable_ui", true)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("weather.timeout", 10*time.Second)

	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.2)

	v.SetDefault("embedder.base_url", "http://localhost:11434/v1")
	v.SetDefault("embedder.model", "all-minilm")
	v.SetDefault("embedder.vector_size", 384)

	v.SetDefault("qdrant.url", "http://localhost:6334")
	v.SetDefault("qdrant.collection", "pdf_collection")

	v.SetDefault("chunker.chunk_size", 800)
	v.SetDefault("chunker.overlap", 100)
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("SKYCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Vendor environment variables kept for compatibility with existing
	// deployments.
	_ = v.BindEnv("weather.api_key", "SKYCAST_WEATHER_API_KEY", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("llm.api_key", "SKYCAST_LLM_API_KEY", "GROQ_API_KEY")
	_ = v.BindEnv("tracing.api_key", "SKYCAST_TRACING_API_KEY", "LANGSMITH_API_KEY")
	_ = v.BindEnv("tracing.project", "SKYCAST_TRACING_PROJECT", "LANGSMITH_PROJECT")
	_ = v.BindEnv("qdrant.url", "SKYCAST_QDRANT_URL")
	_ = v.BindEnv("server.port", "SKYCAST_SERVER_PORT")
	_ = v.BindEnv("server.host", "SKYCAST_SERVER_HOST")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if c.Qdrant.URL == "" {
		return fmt.Errorf("qdrant url cannot be empty")
	}

	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant collection cannot be empty")
	}

	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive: %d", c.Chunker.ChunkSize)
	}

	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("overlap must be between 0 and chunk size: %d", c.Chunker.Overlap)
	}

	if c.Embedder.VectorSize <= 0 {
		return fmt.Errorf("embedder vector size must be positive: %d", c.Embedder.VectorSize)
	}

	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("weather timeout must be positive: %v", c.Weather.Timeout)
	}

	return nil
}

// TracingEnabled reports whether both tracing settings are present. A key
// without a project is a misconfiguration the caller should warn about.
func (c *Config) TracingEnabled() bool {
	return c.Tracing.APIKey != "" && c.Tracing.Project != ""
}
