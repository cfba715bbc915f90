package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Signup   SignupConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	// SlowQuery is the duration above which a statement is logged. Zero
	// turns query tracing off.
	SlowQuery       time.Duration
}

// Enabled reports whether enough settings were given to open a pool.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != "" && d.DBUser != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type SignupConfig struct {
	SessionTTL      time.Duration
	FragmentTTL     time.Duration
	SubmitTimeout   time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// ConfigFileEnv names an optional file (yaml or env) merged under the
// environment.
const ConfigFileEnv = "PATHEXPLORER_CONFIG"

func Load() (Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v. Environment variables always win
// over the optional config file.
func LoadFrom(v *viper.Viper) (Config, error) {
	if err := prepare(v); err != nil {
		return Config{}, err
	}

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		val := strings.TrimSpace(v.GetString(key))
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.Database = databaseFrom(v)

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Signup = SignupConfig{
		SessionTTL:      v.GetDuration("SIGNUP_SESSION_TTL"),
		FragmentTTL:     v.GetDuration("SIGNUP_FRAGMENT_TTL"),
		SubmitTimeout:   v.GetDuration("SIGNUP_SUBMIT_TIMEOUT"),
		RateLimit:       v.GetInt("SIGNUP_RATE_LIMIT"),
		RateLimitWindow: v.GetDuration("SIGNUP_RATE_LIMIT_WINDOW"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. Tools that just talk to
// Postgres use it so they do not need the HTTP and JWT keys.
func LoadDatabase(v *viper.Viper) (DatabaseConfig, error) {
	if err := prepare(v); err != nil {
		return DatabaseConfig{}, err
	}
	db := databaseFrom(v)
	if !db.Enabled() {
		return DatabaseConfig{}, fmt.Errorf("%w: DB_HOST, DB_NAME, DB_USER", errMissingRequiredEnv)
	}
	return db, nil
}

func prepare(v *viper.Viper) error {
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString(ConfigFileEnv)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	return nil
}

func databaseFrom(v *viper.Viper) DatabaseConfig {
	get := func(key string) string { return strings.TrimSpace(v.GetString(key)) }
	return DatabaseConfig{
		DBHost:          get("DB_HOST"),
		DBPort:          get("DB_PORT"),
		DBName:          get("DB_NAME"),
		DBUser:          get("DB_USER"),
		DBPassword:      get("DB_PASSWORD"),
		DBSSLMode:       get("DB_SSL_MODE"),
		MaxConns:        v.GetInt32("DB_MAX_CONNS"),
		MinConns:        v.GetInt32("DB_MIN_CONNS"),
		MaxConnLifetime: v.GetDuration("DB_MAX_CONN_LIFETIME"),
		SlowQuery:       v.GetDuration("DB_SLOW_QUERY"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("DB_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("DB_SLOW_QUERY", 500*time.Millisecond)

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 168*time.Hour)

	v.SetDefault("SIGNUP_SESSION_TTL", 30*time.Minute)
	v.SetDefault("SIGNUP_FRAGMENT_TTL", 30*time.Minute)
	v.SetDefault("SIGNUP_SUBMIT_TIMEOUT", 10*time.Second)
	v.SetDefault("SIGNUP_RATE_LIMIT", 20)
	v.SetDefault("SIGNUP_RATE_LIMIT_WINDOW", time.Minute)

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)
}
