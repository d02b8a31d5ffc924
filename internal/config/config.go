package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const envDatabasePassword = "DATABASE_PASSWORD"

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Redis       RedisConfig       `toml:"redis"`
	Idempotency IdempotencyConfig `toml:"idempotency"`
	Booking     BookingConfig     `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	DialTimeout  int    `toml:"dial_timeout"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`
}

type IdempotencyConfig struct {
	Enabled    bool   `toml:"enabled"`
	HeaderName string `toml:"header_name"`
	KeyPrefix  string `toml:"key_prefix"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// TTL время жизни сохраненного ответа
func (c IdempotencyConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

type BookingConfig struct {
	// AdvanceBookingDays насколько дней вперед можно записаться
	AdvanceBookingDays int `toml:"advance_booking_days"`
	// MinNoticeMinutes минимальный интервал между текущим моментом и началом записи
	MinNoticeMinutes int `toml:"min_notice_minutes"`
	// EnforceAlignment принимать только начала, совпадающие с сеткой слотов
	EnforceAlignment bool `toml:"enforce_alignment"`
	// Timezone зона, в которой интерпретируются даты и время работы бизнеса
	Timezone string `toml:"timezone"`
}

// Location возвращает часовой пояс бизнеса
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Default конфигурация по умолчанию, поверх которой декодируется файл
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "smc_appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
			File:  "logs/app.log",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			PoolSize:     10,
			DialTimeout:  5,
			ReadTimeout:  3,
			WriteTimeout: 3,
		},
		Idempotency: IdempotencyConfig{
			Enabled:    true,
			HeaderName: "Idempotency-Key",
			KeyPrefix:  "appointments:idempotency:",
			TTLMinutes: 24 * 60,
		},
		Booking: BookingConfig{
			AdvanceBookingDays: 60,
			MinNoticeMinutes:   0,
			EnforceAlignment:   true,
			Timezone:           "UTC",
		},
	}
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse декодирует конфигурацию из строки
func Parse(data string) (*Config, error) {
	cfg := Default()

	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if password, ok := os.LookupEnv(envDatabasePassword); ok {
		c.Database.Password = password
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Idempotency.Enabled && c.Idempotency.TTLMinutes <= 0 {
		return fmt.Errorf("%w: idempotency.ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays <= 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must be positive", ErrInvalidConfig)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}
