package cmd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	KafkaEnabled               bool
	KafkaHosts                 []string
	KafkaConsumerGroup         string
	KafkaPaymentConfirmedTopic string
	KafkaRefundRequestedTopic  string
	KafkaOrderChangedTopic     string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SweepLockEnabled bool

	UnpaidOrderTimeout    time.Duration
	DeliveryTimeout       time.Duration
	SweepUnpaidInterval   time.Duration
	SweepDeliveryInterval time.Duration

	LogLevel    string
	LogEncoding string

	// parseErrs holds the variables that were set but unreadable.
	parseErrs []error
}

var loadEnvOnce sync.Once

// LoadConfig reads the configuration from the environment, after loading
// .env when one exists.
func LoadConfig() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load(".env")
	})

	env := &envReader{}
	cfg := Config{
		HTTPPort: env.String("HTTP_PORT", "8080"),

		DBHost:         env.String("DB_HOST", "localhost"),
		DBPort:         env.String("DB_PORT", "5432"),
		DBUser:         env.String("DB_USER", "postgres"),
		DBPassword:     env.String("DB_PASSWORD", "password"),
		DBName:         env.String("DB_NAME", "takeout"),
		DBSslMode:      env.String("DB_SSLMODE", "disable"),
		DBMaxOpenConns: env.Int("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: env.Int("DB_MAX_IDLE_CONNS", 25),

		KafkaEnabled:               env.Bool("KAFKA_ENABLED", false),
		KafkaHosts:                 env.StringSlice("KAFKA_HOST", []string{"localhost:9092"}),
		KafkaConsumerGroup:         env.String("KAFKA_CONSUMER_GROUP", "takeout-orders"),
		KafkaPaymentConfirmedTopic: env.String("KAFKA_PAYMENT_CONFIRMED_TOPIC", "payment.confirmed"),
		KafkaRefundRequestedTopic:  env.String("KAFKA_REFUND_REQUESTED_TOPIC", "payment.refund-requested"),
		KafkaOrderChangedTopic:     env.String("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),

		RedisAddr:        env.String("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    env.String("REDIS_PASSWORD", ""),
		RedisDB:          env.Int("REDIS_DB", 0),
		SweepLockEnabled: env.Bool("SWEEP_LOCK_ENABLED", false),

		UnpaidOrderTimeout:    env.Duration("UNPAID_ORDER_TIMEOUT", 15*time.Minute),
		DeliveryTimeout:       env.Duration("DELIVERY_TIMEOUT", time.Hour),
		SweepUnpaidInterval:   env.Duration("SWEEP_UNPAID_INTERVAL", time.Minute),
		SweepDeliveryInterval: env.Duration("SWEEP_DELIVERY_INTERVAL", time.Hour),

		LogLevel:    env.String("LOG_LEVEL", "info"),
		LogEncoding: env.String("LOG_ENCODING", "json"),
	}
	cfg.parseErrs = env.errs

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every unparseable variable together with every setting
// that is out of range.
func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}

	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"UNPAID_ORDER_TIMEOUT", c.UnpaidOrderTimeout},
		{"DELIVERY_TIMEOUT", c.DeliveryTimeout},
		{"SWEEP_UNPAID_INTERVAL", c.SweepUnpaidInterval},
		{"SWEEP_DELIVERY_INTERVAL", c.SweepDeliveryInterval},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.key, d.value))
		}
	}

	if c.KafkaEnabled && len(c.KafkaHosts) == 0 {
		errs = append(errs, errors.New("KAFKA_HOST is required when KAFKA_ENABLED is set"))
	}
	if c.SweepLockEnabled && c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when SWEEP_LOCK_ENABLED is set"))
	}

	return errors.Join(errs...)
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
