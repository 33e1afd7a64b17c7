package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// Например: VBS_DATABASE_HOST, VBS_LOGS_LEVEL
const EnvPrefix = "VBS"

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrValidation возвращается, когда конфигурация не прошла проверку
	ErrValidation = errors.New("config: validation failed")
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Notifications NotificationsConfig `toml:"notifications"`
	Audit         AuditConfig         `toml:"audit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true" validate:"min=0"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true" validate:"min=0"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true" validate:"min=1"`
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true" validate:"required"`
	Port            int    `toml:"port" split_words:"true" validate:"required,min=1,max=65535"`
	User            string `toml:"user" split_words:"true" validate:"required"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true" validate:"required"`
	SSLMode         string `toml:"sslmode" split_words:"true" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true" validate:"min=0"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true" validate:"omitempty,oneof=debug info warn error"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" split_words:"true" validate:"required_if=Enabled true"`
}

// BookingConfig настройки машины состояний заявок
type BookingConfig struct {
	// StoreTimeoutSeconds ограничение на одну операцию с хранилищем
	StoreTimeoutSeconds int `toml:"store_timeout_seconds" split_words:"true" validate:"min=1"`
}

// StoreTimeout возвращает таймаут операции с хранилищем
func (b BookingConfig) StoreTimeout() time.Duration {
	return time.Duration(b.StoreTimeoutSeconds) * time.Second
}

// NotificationsConfig настройки доставки уведомлений
type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled" split_words:"true"`
	Workers        int    `toml:"workers" split_words:"true" validate:"min=1"`
	QueueSize      int    `toml:"queue_size" split_words:"true" validate:"min=1"`
	MaxRetries     int    `toml:"max_retries" split_words:"true" validate:"min=0,max=10"`
	RetryBackoffMs int    `toml:"retry_backoff_ms" split_words:"true" validate:"min=0"`
	RabbitURL      string `toml:"rabbit_url" split_words:"true" validate:"omitempty,url"`
	Exchange       string `toml:"exchange" split_words:"true" validate:"required_with=RabbitURL"`
	TelegramURL    string `toml:"telegram_url" split_words:"true" validate:"omitempty,url"`
	TelegramToken  string `toml:"telegram_token" split_words:"true" validate:"required_with=TelegramURL"`
	TelegramChatID string `toml:"telegram_chat_id" split_words:"true" validate:"required_with=TelegramURL"`
	TimeoutSeconds int    `toml:"timeout_seconds" split_words:"true" validate:"min=1"`
}

// RetryBackoff возвращает базовую паузу между попытками доставки
func (n NotificationsConfig) RetryBackoff() time.Duration {
	return time.Duration(n.RetryBackoffMs) * time.Millisecond
}

// Timeout возвращает таймаут одной попытки доставки
func (n NotificationsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// AuditConfig настройки журнала аудита
type AuditConfig struct {
	QueueSize int `toml:"queue_size" split_words:"true" validate:"min=1"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "vbs",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "vbs",
		},
		Booking: BookingConfig{
			StoreTimeoutSeconds: 5,
		},
		Notifications: NotificationsConfig{
			Workers:        2,
			QueueSize:      256,
			MaxRetries:     3,
			RetryBackoffMs: 500,
			Exchange:       "vbs.events",
			TimeoutSeconds: 5,
		},
		Audit: AuditConfig{
			QueueSize: 512,
		},
	}
}

// Load читает конфигурацию из TOML-файла поверх значений по умолчанию,
// применяет переопределения из окружения и проверяет результат
// Отсутствующий файл не ошибка: используются значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("%w: decode %s: %v", ErrReadConfig, path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: stat %s: %v", ErrReadConfig, path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет секции конфигурации из переменных окружения VBS_<SECTION>_<KEY>
func applyEnv(cfg *Config) error {
	sections := map[string]interface{}{
		"SERVER":        &cfg.Server,
		"DATABASE":      &cfg.Database,
		"LOGS":          &cfg.Logs,
		"METRICS":       &cfg.Metrics,
		"BOOKING":       &cfg.Booking,
		"NOTIFICATIONS": &cfg.Notifications,
		"AUDIT":         &cfg.Audit,
	}
	for name, section := range sections {
		if err := envconfig.Process(EnvPrefix+"_"+name, section); err != nil {
			return fmt.Errorf("%w: env %s: %v", ErrReadConfig, name, err)
		}
	}
	return nil
}

// Validate проверяет конфигурацию по тегам validate
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
