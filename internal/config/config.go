package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Arcade    ArcadeConfig    `mapstructure:"arcade"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// runtime flags, set from the command line rather than the config file
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// ArcadeConfig holds the game-loop timing and room defaults. Zero values are
// replaced with production defaults so a partial config file still runs.
type ArcadeConfig struct {
	RoundSeconds        int `mapstructure:"round_seconds"`
	VotingSeconds       int `mapstructure:"voting_seconds"`
	ResultsSeconds      int `mapstructure:"results_seconds"`
	IntermissionSeconds int `mapstructure:"intermission_seconds"`
	MinPlayers          int `mapstructure:"min_players"`
	MaxPlayers          int `mapstructure:"max_players"`
	RoundsPerGame       int `mapstructure:"rounds_per_game"`
	SchedulerTickMs     int `mapstructure:"scheduler_tick_ms"`
	StuckThresholdMin   int `mapstructure:"stuck_threshold_min"`

	// SpeedWindowSeconds enables the speed bonus: submissions locked in
	// within this many seconds of round start qualify as fast. 0 disables
	// the bonus entirely.
	SpeedWindowSeconds int `mapstructure:"speed_window_seconds"`
}

func (a *ArcadeConfig) ApplyDefaults() {
	if a.RoundSeconds == 0 {
		a.RoundSeconds = 60
	}
	if a.VotingSeconds == 0 {
		a.VotingSeconds = 15
	}
	if a.ResultsSeconds == 0 {
		a.ResultsSeconds = 5
	}
	if a.IntermissionSeconds == 0 {
		a.IntermissionSeconds = 90
	}
	if a.MinPlayers == 0 {
		a.MinPlayers = 2
	}
	if a.MaxPlayers == 0 {
		a.MaxPlayers = 6
	}
	if a.RoundsPerGame == 0 {
		a.RoundsPerGame = 5
	}
	if a.SchedulerTickMs == 0 {
		a.SchedulerTickMs = 1000
	}
	if a.StuckThresholdMin == 0 {
		a.StuckThresholdMin = 5
	}
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PATHFINITY")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Arcade.ApplyDefaults()

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
