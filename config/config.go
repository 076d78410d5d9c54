package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside/logger"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Order    OrderConfig    `mapstructure:"order"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Services ServicesConfig `mapstructure:"services"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Addr is the listen address for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory / postgres
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the lib/pq key=value connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`

	// TTL bounds idle carts and waiter acknowledgements.
	TTL time.Duration `mapstructure:"ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type OrderConfig struct {
	CodeAttempts int           `mapstructure:"code_attempts"`
	TaxRate      string        `mapstructure:"tax_rate"`
	ArchiveAfter time.Duration `mapstructure:"archive_after"`
	SweepEvery   time.Duration `mapstructure:"sweep_every"`
	QRBaseURL    string        `mapstructure:"qr_base_url"`
	SeedMenu     bool          `mapstructure:"seed_menu"`
}

type NotifyConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// StatsConfig controls the daily aggregates kept by agg-svc and read by
// analytics-svc.
type StatsConfig struct {
	Retention time.Duration `mapstructure:"retention"`
	Timezone  string        `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC.
func (c StatsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logger.Warnw("stats_timezone_invalid", "timezone", c.Timezone, "err", err)
		return time.UTC
	}
	return loc
}

type ServicesConfig struct {
	OrderSvcURL     string `mapstructure:"order_svc_url"`
	AnalyticsSvcURL string `mapstructure:"analytics_svc_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SetDefaults registers every default on v. Service ports differ per binary
// and are passed in by the caller.
func SetDefaults(v *viper.Viper, port int) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", port)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("storage.driver", "memory")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.name", "tableside")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tableside")
	v.SetDefault("redis.ttl", 12*time.Hour)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "order-events")
	v.SetDefault("kafka.group_id", "agg-svc-consumer")

	v.SetDefault("order.code_attempts", 10)
	v.SetDefault("order.tax_rate", "0.10")
	v.SetDefault("order.archive_after", 30*time.Minute)
	v.SetDefault("order.sweep_every", time.Minute)
	v.SetDefault("order.qr_base_url", "http://localhost:8080")
	v.SetDefault("order.seed_menu", true)

	v.SetDefault("notify.poll_interval", 3*time.Second)

	v.SetDefault("stats.retention", 30*24*time.Hour)
	v.SetDefault("stats.timezone", "UTC")

	v.SetDefault("services.order_svc_url", "http://localhost:8081")
	v.SetDefault("services.analytics_svc_url", "http://localhost:8083")

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load reads config.yaml (if any) and environment overrides into a Config.
// Environment keys replace dots with underscores: server.port -> SERVER_PORT.
func Load(port int) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./etc")
	v.AddConfigPath("../")

	SetDefaults(v, port)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logger.Infow("config_file_missing", "fallback", "env_or_defaults")
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects intervals that would stop a ticker or expire keys on
// write.
func (c *Config) Validate() error {
	positive := []struct {
		key   string
		value time.Duration
	}{
		{"notify.poll_interval", c.Notify.PollInterval},
		{"order.sweep_every", c.Order.SweepEvery},
		{"stats.retention", c.Stats.Retention},
	}
	for _, d := range positive {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.value)
		}
	}
	if c.Order.ArchiveAfter < 0 {
		return fmt.Errorf("order.archive_after must not be negative, got %s", c.Order.ArchiveAfter)
	}
	return nil
}

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Z().Fatal("failed to open database: " + err.Error())
	}

	if err = db.Ping(); err != nil {
		logger.Z().Fatal("failed to ping database: " + err.Error())
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Z().Fatal("failed to connect to redis: " + err.Error())
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
