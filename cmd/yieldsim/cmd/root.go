package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantfarm/yieldsim/config"
	"github.com/quantfarm/yieldsim/engine"
	"github.com/quantfarm/yieldsim/ledger"
	"github.com/quantfarm/yieldsim/metrics"
	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "yieldsim",
	Short: "Deterministic return-simulation engine for investment accounts",
	Long: `Yieldsim generates and maintains a twelve-period return plan per account:
tiered monthly rates compounded across periods, each period decomposed into
daily payout targets, each day decomposable into individual trade records,
with every level reconciling exactly to the one above it.

It handles account activation, mid-period capital injections (prorated
reconciliation of all undistributed amounts) and idempotent daily payouts.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// buildEngine wires store, ledger and engine from config. The returned
// cleanup closes both backends.
func buildEngine(cfg *config.Config, log *logrus.Logger, collector *metrics.Collector) (*engine.Engine, func(), error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Type {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DBPath)
	case "postgres":
		st, err = store.NewPostgres(cfg.Store.ConnString)
	default:
		st = store.NewMemory()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	var led ledger.Ledger
	switch cfg.Ledger.Type {
	case "csv":
		led, err = ledger.NewCSV(cfg.Ledger.CreditsFile)
	default:
		led, err = ledger.NewSQLite(cfg.Ledger.DBPath)
	}
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("create ledger: %w", err)
	}

	var src rng.Source
	if cfg.Engine.Seed != 0 {
		src = rng.New(cfg.Engine.Seed)
	} else {
		src = rng.NewCrypto()
	}

	eng, err := engine.New(engine.Options{
		Store:   st,
		Ledger:  led,
		Rand:    src,
		Logger:  log,
		Metrics: collector,
	})
	if err != nil {
		_ = led.Close()
		_ = st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = led.Close()
		_ = st.Close()
	}
	return eng, cleanup, nil
}
