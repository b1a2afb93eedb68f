package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// PaymentAddress адрес внешнего платежного шлюза. Пустое значение включает заглушку.
	PaymentAddress string        `env:"PAYMENT_ADDRESS"`
	PaymentDelay   time.Duration `env:"PAYMENT_DELAY"`

	TxSlots    uint          `env:"TX_SLOTS"`
	TxSlotWait time.Duration `env:"TX_SLOT_WAIT"`
	TxTimeout  time.Duration `env:"TX_TIMEOUT"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.PaymentAddress, "p", "", "Payment gateway address (empty enables the stub)")

	flag.UintVar(&flagConfig.TxSlots, "s", 16, "Max concurrent order transactions") //nolint:mnd
	flag.DurationVar(&flagConfig.TxSlotWait, "tx-slot-wait", time.Second, "Transaction slot wait timeout")
	flag.DurationVar(&flagConfig.TxTimeout, "tx-timeout", 5*time.Second, "Transaction body timeout") //nolint:mnd
	flag.DurationVar(&flagConfig.PaymentDelay, "payment-delay", 100*time.Millisecond, "Payment stub delay") //nolint:mnd

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		PaymentAddress: defaultIfBlank(envConfig.PaymentAddress, flagsConfig.PaymentAddress),
		PaymentDelay:   defaultIfZero(envConfig.PaymentDelay, flagsConfig.PaymentDelay),
		TxSlots:        defaultIfZero(envConfig.TxSlots, flagsConfig.TxSlots),
		TxSlotWait:     defaultIfZero(envConfig.TxSlotWait, flagsConfig.TxSlotWait),
		TxTimeout:      defaultIfZero(envConfig.TxTimeout, flagsConfig.TxTimeout),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero[T comparable](value T, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
