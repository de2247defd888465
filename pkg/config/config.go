package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Contextual ContextualConfig `mapstructure:"contextual"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
}

type ServerConfig struct {
	Host             string   `mapstructure:"host"`
	Port             int      `mapstructure:"port"`
	MetricsPort      int      `mapstructure:"metrics_port"`
	SecretKey        string   `mapstructure:"secret_key"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	MaxWSConnections int      `mapstructure:"max_ws_connections"`
}

type EngineConfig struct {
	RulesSource      string `mapstructure:"rules_source"`
	RulesFile        string `mapstructure:"rules_file"`
	MaxTextLength    int    `mapstructure:"max_text_length"`
	MaxBatchSize     int    `mapstructure:"max_batch_size"`
	GateLow          int    `mapstructure:"gate_low"`
	GateHigh         int    `mapstructure:"gate_high"`
	CategoryBoost    int    `mapstructure:"category_boost"`
	CategoryBoostCap int    `mapstructure:"category_boost_cap"`
}

type ContextualConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
	Azure          AzureConfig   `mapstructure:"azure"`
	AWS            AWSConfig     `mapstructure:"aws"`
}

type BreakerConfig struct {
	MaxFailures         uint32 `mapstructure:"max_failures"`
	ResetTimeoutSeconds int    `mapstructure:"reset_timeout_seconds"`
}

type AzureConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIVersion  string `mapstructure:"api_version"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type AWSConfig struct {
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type CacheConfig struct {
	TTLSeconds  int              `mapstructure:"ttl_seconds"`
	MaxSize     int              `mapstructure:"max_size"`
	Distributed DistributedCache `mapstructure:"distributed"`
}

type DistributedCache struct {
	Enabled   bool   `mapstructure:"enabled"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

type TelemetryConfig struct {
	Exporters []ExporterConfig `mapstructure:"exporters"`
}

type WebSocketConfig struct {
	PongWait   string `mapstructure:"pong_wait"`
	PingPeriod string `mapstructure:"ping_period"`
}

type ExporterConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Server.MaxWSConnections == 0 {
		globalConfig.Server.MaxWSConnections = 1024
	}
	if globalConfig.Engine.RulesSource == "" {
		globalConfig.Engine.RulesSource = "file"
	}
	if globalConfig.Engine.RulesFile == "" {
		globalConfig.Engine.RulesFile = "config/rules.json"
	}
	if globalConfig.Engine.MaxTextLength == 0 {
		globalConfig.Engine.MaxTextLength = common.DefaultMaxTextLength
	}
	if globalConfig.Engine.MaxBatchSize == 0 {
		globalConfig.Engine.MaxBatchSize = common.DefaultMaxBatchSize
	}
	if globalConfig.Engine.GateLow == 0 {
		globalConfig.Engine.GateLow = 30
	}
	if globalConfig.Engine.GateHigh == 0 {
		globalConfig.Engine.GateHigh = 100
	}
	if globalConfig.Engine.CategoryBoost == 0 {
		globalConfig.Engine.CategoryBoost = 5
	}
	if globalConfig.Engine.CategoryBoostCap == 0 {
		globalConfig.Engine.CategoryBoostCap = 15
	}
	if globalConfig.Contextual.Provider == "" {
		globalConfig.Contextual.Provider = "openai"
	}
	if globalConfig.Contextual.Model == "" {
		globalConfig.Contextual.Model = "gpt-4o-mini"
	}
	if globalConfig.Contextual.TimeoutSeconds == 0 {
		globalConfig.Contextual.TimeoutSeconds = int(common.DefaultContextualTimeout.Seconds())
	}
	if globalConfig.Contextual.MaxTokens == 0 {
		globalConfig.Contextual.MaxTokens = 500
	}
	if globalConfig.Contextual.Temperature == 0 {
		globalConfig.Contextual.Temperature = 0.3
	}
	if globalConfig.Contextual.Breaker.MaxFailures == 0 {
		globalConfig.Contextual.Breaker.MaxFailures = 5
	}
	if globalConfig.Contextual.Breaker.ResetTimeoutSeconds == 0 {
		globalConfig.Contextual.Breaker.ResetTimeoutSeconds = 30
	}
	if globalConfig.Cache.TTLSeconds == 0 {
		globalConfig.Cache.TTLSeconds = int(common.DefaultCacheTTL.Seconds())
	}
	if globalConfig.Cache.MaxSize == 0 {
		globalConfig.Cache.MaxSize = common.DefaultCacheMaxSize
	}
	if globalConfig.Cache.Distributed.KeyPrefix == "" {
		globalConfig.Cache.Distributed.KeyPrefix = "scamshield:result:"
	}
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.WebSocket.PongWait == "" {
		globalConfig.WebSocket.PongWait = "45s"
	}
	if globalConfig.WebSocket.PingPeriod == "" {
		globalConfig.WebSocket.PingPeriod = "30s"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
