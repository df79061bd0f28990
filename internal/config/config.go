package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"snowflake-admin/internal/database"
)

// EnvPrefix prefixes every environment override, e.g. SFADMIN_SNOWFLAKE_ACCOUNT
const EnvPrefix = "SFADMIN"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
	Host string `mapstructure:"host"`
}

// SnowflakeConfig is the connection section. DSN, when set, is parsed first
// and the individual fields override what it carries.
type SnowflakeConfig struct {
	DSN       string `mapstructure:"dsn"`
	Account   string `mapstructure:"account" validate:"required_without=DSN"`
	User      string `mapstructure:"user" validate:"required_without=DSN"`
	Password  string `mapstructure:"password"`
	Token     string `mapstructure:"token"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
	Region    string `mapstructure:"region"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Protocol  string `mapstructure:"protocol" validate:"omitempty,oneof=http https"`

	LoginTimeout           time.Duration     `mapstructure:"login_timeout"`
	RequestTimeout         time.Duration     `mapstructure:"request_timeout"`
	ClientSessionKeepAlive bool              `mapstructure:"client_session_keep_alive"`
	Params                 map[string]string `mapstructure:"params"`
	InsertBatchSize        int               `mapstructure:"insert_batch_size" validate:"gte=0"`
}

type TemplatesConfig struct {
	// Dir is the template folder; empty means ./templates or the built-in set
	Dir string `mapstructure:"dir"`
}

type SecurityConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret" validate:"required_if=EnableAuth true"`
	JWTExpiration      time.Duration `mapstructure:"jwt_expiration"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" validate:"gte=0"`
	EnableAuth         bool          `mapstructure:"enable_auth"`
	EnableRateLimit    bool          `mapstructure:"enable_rate_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// Load reads the configuration. An empty path searches for config.yaml in
// ./configs and the working directory; a missing file there is not an error.
// Environment variables override both, e.g. SFADMIN_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration against its field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ToSnowflakeConfig converts the snowflake section to driver settings
func (c *SnowflakeConfig) ToSnowflakeConfig() (*database.SnowflakeConfig, error) {
	cfg := database.DefaultSnowflakeConfig()
	if c.DSN != "" {
		parsed, err := database.ParseConnectionString(c.DSN)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Account, c.Account)
	override(&cfg.User, c.User)
	override(&cfg.Password, c.Password)
	override(&cfg.Token, c.Token)
	override(&cfg.Database, c.Database)
	override(&cfg.Schema, c.Schema)
	override(&cfg.Warehouse, c.Warehouse)
	override(&cfg.Role, c.Role)
	override(&cfg.Region, c.Region)
	override(&cfg.Host, c.Host)
	override(&cfg.Protocol, c.Protocol)
	if c.Port != 0 {
		cfg.Port = c.Port
	}
	if c.LoginTimeout > 0 {
		cfg.LoginTimeout = c.LoginTimeout
	}
	if c.RequestTimeout > 0 {
		cfg.RequestTimeout = c.RequestTimeout
	}
	cfg.ClientSessionKeepAlive = c.ClientSessionKeepAlive
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	for k, v := range c.Params {
		cfg.Params[k] = v
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.host", "0.0.0.0")

	// Snowflake defaults; empty keys are registered so env overrides bind
	for _, key := range []string{
		"dsn", "account", "user", "password", "token", "database", "schema",
		"warehouse", "role", "region", "host", "protocol",
	} {
		v.SetDefault("snowflake."+key, "")
	}
	v.SetDefault("snowflake.port", 443)
	v.SetDefault("snowflake.login_timeout", "30s")
	v.SetDefault("snowflake.request_timeout", "30s")
	v.SetDefault("snowflake.client_session_keep_alive", true)
	v.SetDefault("snowflake.insert_batch_size", 1000)

	v.SetDefault("templates.dir", "")

	// Security defaults
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.jwt_expiration", "24h")
	v.SetDefault("security.rate_limit_per_minute", 60)
	v.SetDefault("security.rate_limit_burst", 10)
	v.SetDefault("security.enable_auth", true)
	v.SetDefault("security.enable_rate_limit", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
