package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port        string        `mapstructure:"port"`
	DatabaseURL string        `mapstructure:"database_url"`
	APIKey      string        `mapstructure:"api_key"`
	Archive     ArchiveConfig `mapstructure:"archive"`
	LLM         LLMConfig     `mapstructure:"llm"`
}

type ArchiveConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Rows    int    `mapstructure:"rows"`
}

type LLMConfig struct {
	Provider       string `mapstructure:"provider"` // openai or anthropic
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

func Load() (*Config, error) {
	viper.SetDefault("port", "8080")
	viper.SetDefault("archive.base_url", "https://archive.org")
	viper.SetDefault("archive.rows", 50)
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.embedding_model", "text-embedding-3-small")

	// Environment variable overrides
	viper.SetEnvPrefix("SLEUTH")
	viper.AutomaticEnv()
	viper.BindEnv("port", "SLEUTH_PORT")
	viper.BindEnv("database_url", "DATABASE_URL")
	viper.BindEnv("api_key", "SERVICE_API_KEY")
	viper.BindEnv("archive.base_url", "SLEUTH_ARCHIVE_BASE_URL")
	viper.BindEnv("llm.provider", "SLEUTH_LLM_PROVIDER")
	viper.BindEnv("llm.model", "SLEUTH_LLM_MODEL")
	viper.BindEnv("llm.base_url", "SLEUTH_LLM_BASE_URL")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/archive-sleuth")

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
