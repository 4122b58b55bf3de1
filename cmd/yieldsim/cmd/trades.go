package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfarm/yieldsim/synth"
)

var (
	tradesAccount string
	tradesDate    string
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List the trade detail for an account's day",
	Long: `Trades prints the individual trade records behind one daily target,
materializing them on first request. The profit/loss column sums exactly to
the day's target amount.`,
	RunE: runTrades,
}

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().StringVar(&tradesAccount, "account", "", "account id (required)")
	tradesCmd.Flags().StringVar(&tradesDate, "date", "", "date YYYY-MM-DD (default today)")
	tradesCmd.MarkFlagRequired("account")
}

func runTrades(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	date, err := parseDate(tradesDate)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	trades, err := eng.DayTrades(cmd.Context(), tradesAccount, date)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-6s %-9s %10s %12s %10s\n", "time", "dir", "pair", "p/l", "size", "held")
	for _, tr := range trades {
		fmt.Printf("%-8s %-6s %-9s %10.2f %12.2f %10s\n",
			tr.Time.Format("15:04"), tr.Direction, tr.Instrument,
			tr.ProfitLoss, tr.PositionSize, tr.Duration.Round(time.Minute))
	}
	fmt.Printf("\n%d trades, net $%.2f\n", len(trades), synth.Sum(trades))
	return nil
}
