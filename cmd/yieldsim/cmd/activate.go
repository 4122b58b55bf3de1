package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	activateAccount   string
	activatePrincipal float64
	activateDate      string
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate an account and build its twelve-period plan",
	Long: `Activate builds and persists the full return plan for an account from its
principal and activation date. Activation is idempotent: re-running for an
existing account prints the stored plan without rebuilding it.

Example:
  yieldsim activate --account ACC-1 --principal 10000 --date 2024-01-01`,
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)

	activateCmd.Flags().StringVar(&activateAccount, "account", "", "account id (required)")
	activateCmd.Flags().Float64Var(&activatePrincipal, "principal", 0, "deposited principal (required)")
	activateCmd.Flags().StringVar(&activateDate, "date", "", "activation date YYYY-MM-DD (default today)")
	activateCmd.MarkFlagRequired("account")
	activateCmd.MarkFlagRequired("principal")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func runActivate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	date, err := parseDate(activateDate)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	eng, cleanup, err := buildEngine(cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	pl, created, err := eng.Activate(cmd.Context(), activateAccount, activatePrincipal, date)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("Plan created for %s\n", pl.AccountID)
	} else {
		fmt.Printf("Plan already exists for %s\n", pl.AccountID)
	}
	fmt.Printf("  Principal: $%.2f, activated %s\n\n", pl.Account.Principal, pl.Account.ActivatedAt.Format("2006-01-02"))
	for _, p := range pl.Periods {
		fmt.Printf("  P%02d %s  rate %.2f%%  balance $%.2f -> target $%.2f (%d days, %s)\n",
			p.Ordinal, p.StartDate.Format("2006-01-02"), p.Rate*100,
			p.StartingBalance, p.TargetAmount, p.Days, p.State)
	}
	return nil
}
