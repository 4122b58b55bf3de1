package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfarm/yieldsim/payout"
)

var (
	payoutAccount string
	payoutDate    string
	payoutAll     bool
)

var payoutCmd = &cobra.Command{
	Use:   "payout",
	Short: "Process a daily payout (manual trigger)",
	Long: `Payout credits the daily target for (account, date). Re-running for an
already-processed date is a safe no-op; the command reports which case
occurred. With --all the payout runs for every stored account, exactly as
the daily scheduler does.

Example:
  yieldsim payout --account ACC-1 --date 2024-01-05`,
	RunE: runPayout,
}

func init() {
	rootCmd.AddCommand(payoutCmd)

	payoutCmd.Flags().StringVar(&payoutAccount, "account", "", "account id")
	payoutCmd.Flags().StringVar(&payoutDate, "date", "", "payout date YYYY-MM-DD (default today)")
	payoutCmd.Flags().BoolVar(&payoutAll, "all", false, "process every stored account")
}

func runPayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	date, err := parseDate(payoutDate)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	if payoutAll {
		credited := eng.RunDailyPayouts(cmd.Context(), date)
		fmt.Printf("Credited %d account(s) for %s\n", credited, date.Format("2006-01-02"))
		return nil
	}

	if payoutAccount == "" {
		return fmt.Errorf("either --account or --all is required")
	}

	res, err := eng.ProcessPayout(cmd.Context(), payoutAccount, date)
	if err != nil {
		return err
	}

	switch res.Status {
	case payout.StatusAlreadyPaid:
		fmt.Printf("%s %s: already processed\n", payoutAccount, res.Date.Format("2006-01-02"))
	default:
		fmt.Printf("%s %s: credited $%.2f (%s)\n",
			payoutAccount, res.Date.Format("2006-01-02"), res.Amount, res.Source)
		if res.PeriodCompleted {
			fmt.Printf("  period %d completed\n", res.PeriodOrdinal)
		}
	}
	return nil
}
