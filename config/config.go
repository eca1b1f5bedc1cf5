package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Database struct {
	Path string `mapstructure:"path"`
}

type Anthropic struct {
	APIKey           string `mapstructure:"apiKey"`
	Model            string `mapstructure:"model"`
	ShallowMaxTokens int    `mapstructure:"shallowMaxTokens"`
	DeepMaxTokens    int    `mapstructure:"deepMaxTokens"`
}

type Cache struct {
	StatsTTL time.Duration `mapstructure:"statsTTL"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	Anthropic Anthropic `mapstructure:"anthropic"`
	Cache     Cache     `mapstructure:"cache"`
	Log       Log       `mapstructure:"log"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8081)
	viper.SetDefault("database.path", "localpulse.db")
	viper.SetDefault("anthropic.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("anthropic.shallowMaxTokens", 200)
	viper.SetDefault("anthropic.deepMaxTokens", 800)
	viper.SetDefault("cache.statsTTL", 5*time.Minute)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// The key never lives in the config file.
	_ = viper.BindEnv("anthropic.apiKey", "CLAUDE_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	return &config
}
