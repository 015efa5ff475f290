package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// Config is shared by every service; each one only reads the sections it needs.
// Nested fields must use split_words rather than envconfig tags: a tag also
// registers an unprefixed fallback key, so DB.User would silently read $USER.
type Config struct {
	DB       DBConfig     `envconfig:"DB"`
	Redis    RedisConfig  `envconfig:"REDIS"`
	Kafka    KafkaConfig  `envconfig:"KAFKA"`
	Ledger   LedgerConfig `envconfig:"LEDGER"`
	LogLevel string       `envconfig:"LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	Host            string        `split_words:"true" default:"localhost"`
	Port            string        `split_words:"true" default:"5432"`
	Name            string        `split_words:"true" default:"restaurant"`
	User            string        `split_words:"true" default:"postgres"`
	Password        string        `split_words:"true"`
	SSLMode         string        `split_words:"true" default:"disable"`
	MaxOpenConns    int           `split_words:"true" default:"25"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"1h"`
}

type RedisConfig struct {
	Host      string        `split_words:"true" default:"localhost"`
	Port      string        `split_words:"true" default:"6379"`
	Password  string        `split_words:"true"`
	DB        int           `split_words:"true" default:"0"`
	MenuTTL   time.Duration `split_words:"true" default:"5m"`
	ReportTTL time.Duration `split_words:"true" default:"1m"`
}

type KafkaConfig struct {
	Broker  string `split_words:"true" default:"localhost:9092"`
	Topic   string `split_words:"true" default:"ledger-events"`
	GroupID string `split_words:"true" default:"agg-svc"`
}

// LedgerConfig holds the business rules of the payment processor.
type LedgerConfig struct {
	HouseAccountID       int64         `split_words:"true" default:"1"`
	EnforceNoOverdraft   bool          `split_words:"true" default:"true"`
	RequireExactAmount   bool          `split_words:"true" default:"false"`
	MaxRetries           uint64        `split_words:"true" default:"5"`
	RetryInitialInterval time.Duration `split_words:"true" default:"50ms"`
	RetryMaxInterval     time.Duration `split_words:"true" default:"1s"`
	TxTimeout            time.Duration `split_words:"true" default:"10s"`
	ReceiptBaseURL       string        `split_words:"true" default:"http://localhost:8080"`
}

// Load reads the configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Ledger.HouseAccountID <= 0 {
		return Config{}, fmt.Errorf("load config: LEDGER_HOUSE_ACCOUNT_ID must be positive, got %d", cfg.Ledger.HouseAccountID)
	}
	return cfg, nil
}

// DSN builds a lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func MustInitPostgres(cfg DBConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.WithError(err).WithField("host", cfg.Host).Fatal("failed to ping database")
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
		log.WithError(err).WithField("addr", cfg.Addr()).Fatal("failed to connect to redis")
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Broker),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	}
}

// SetupLogging configures the global logrus logger for a service.
func SetupLogging(service, level string) *log.Entry {
	log.SetFormatter(&log.JSONFormatter{})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	return log.WithField("service", service)
}
