package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statusAccount string
	statusDate    string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an account's active period progress",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusAccount, "account", "", "account id (required)")
	statusCmd.Flags().StringVar(&statusDate, "date", "", "day to inspect YYYY-MM-DD (default today)")
	statusCmd.MarkFlagRequired("account")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	date, err := parseDate(statusDate)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	prog, err := eng.Progress(cmd.Context(), statusAccount)
	if err != nil {
		return err
	}

	fmt.Printf("Account %s\n", prog.AccountID)
	fmt.Printf("  Balance:  $%.2f\n", prog.Balance)
	fmt.Printf("  Interest: $%.2f\n", prog.Interest)
	fmt.Printf("  Period %d (%s to %s), rate %.2f%%\n",
		prog.PeriodOrdinal, prog.StartDate.Format("2006-01-02"),
		prog.EndDate.AddDate(0, 0, -1).Format("2006-01-02"), prog.Rate*100)
	fmt.Printf("  Target $%.2f, paid $%.2f, remaining $%.2f (%d days left)\n",
		prog.Target, prog.PaidSoFar, prog.Remaining, prog.RemainingDays)

	day, err := eng.Day(cmd.Context(), statusAccount, date)
	if err == nil {
		fmt.Printf("  %s: $%.2f (%s, %s)\n",
			day.Date.Format("2006-01-02"), day.Amount, day.State, day.Source)
	}
	return nil
}
