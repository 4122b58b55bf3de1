package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfarm/yieldsim/metrics"
	"github.com/quantfarm/yieldsim/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily payout scheduler",
	Long: `Run starts the service: a cron-driven daily payout job over every stored
account, plus an optional prometheus metrics endpoint. Payouts are
idempotent, so an overlapping manual trigger cannot double-credit.

Example:
  yieldsim run -f config.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	eng, cleanup, err := buildEngine(cfg, log, collector)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	sched := scheduler.New(log)
	err = sched.Register("daily-payouts", cfg.Scheduler.PayoutCron, func() {
		credited := eng.RunDailyPayouts(ctx, time.Now().UTC())
		log.WithField("credited", credited).Info("daily payout run finished")
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: collector.Handler()}
		go func() {
			log.WithField("addr", cfg.Metrics.Addr).Info("metrics endpoint listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
	return nil
}
