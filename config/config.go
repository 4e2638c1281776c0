package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server Server       `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Ollama OllamaConfig `mapstructure:"ollama"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Avatar AvatarConfig `mapstructure:"avatar"`
	Tts    TtsConfig    `mapstructure:"tts"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

// LLM provider selection
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // "gemini" or "ollama"
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // Optional, defaults to generativelanguage API
	Timeout int    `mapstructure:"timeout"`  // seconds
}

type OllamaConfig struct {
	Host    string `mapstructure:"host"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// AvatarConfig holds the talking-avatar rendering service settings.
// Either api_key or basic_user/basic_pass must be configured.
type AvatarConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	BasicUser      string `mapstructure:"basic_user"`
	BasicPass      string `mapstructure:"basic_pass"`
	SourceURL      string `mapstructure:"source_url"` // default presenter image
	VoiceID        string `mapstructure:"voice_id"`   // default voice
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	DeadlineSec    int    `mapstructure:"deadline_seconds"`
}

type TtsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Type            string `mapstructure:"type"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *AvatarConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *AvatarConfig) Deadline() time.Duration {
	return time.Duration(c.DeadlineSec) * time.Second
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.BindEnv("gemini.api_key", "AVACHAT_GEMINI_API_KEY")
	viper.BindEnv("avatar.api_key", "AVACHAT_AVATAR_API_KEY")
	viper.BindEnv("avatar.basic_user", "AVACHAT_AVATAR_BASIC_USER")
	viper.BindEnv("avatar.basic_pass", "AVACHAT_AVATAR_BASIC_PASS")
	viper.BindEnv("llm.provider", "LLM_PROVIDER")

	viper.SetDefault("server.port", "8080")

	viper.SetDefault("llm.provider", "gemini")

	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.timeout", 30)

	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")
	viper.SetDefault("ollama.timeout", 30)

	viper.SetDefault("cache.ttl_seconds", 300)

	viper.SetDefault("avatar.base_url", "https://api.d-id.com")
	viper.SetDefault("avatar.source_url", "https://create-images-results.d-id.com/DefaultPresenters/Emma_f/image.jpeg")
	viper.SetDefault("avatar.voice_id", "en-US-JennyNeural")
	viper.SetDefault("avatar.poll_interval_ms", 1200)
	viper.SetDefault("avatar.deadline_seconds", 30)

	viper.SetDefault("tts.enabled", true)
	viper.SetDefault("tts.type", "google")

	// Allow environment variables
	viper.SetEnvPrefix("AVACHAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
