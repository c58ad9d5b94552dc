package main

import (
	"fmt"
	"io"
	"time"

	"smartspend/internal/models"
	"smartspend/internal/server"
	"smartspend/internal/services"

	"github.com/spf13/cobra"
)

var (
	flagUser   string
	flagCount  int
	flagMonths int
	flagSeed   uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a user's history with realistic demo expenses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(func(c *server.Container) error {
			gen := services.NewExpenseGenerator(flagSeed)
			return seedExpenses(cmd.OutOrStdout(), c, gen, flagUser, flagCount, flagMonths, time.Now().UTC())
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Username to seed")
	seedCmd.Flags().IntVar(&flagCount, "count", 120, "Number of day-to-day expenses")
	seedCmd.Flags().IntVar(&flagMonths, "months", 6, "How many months back to spread expenses")
	seedCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Generator seed (0 picks a random one)")
	rootCmd.AddCommand(seedCmd)
}

// seedExpenses generates count expenses plus monthly bills over the last months and stores them.
func seedExpenses(out io.Writer, c *server.Container, gen services.ExpenseGeneratorInterface, username string, count, months int, now time.Time) error {
	if months < 1 {
		return fmt.Errorf("--months must be at least 1, got %d", months)
	}
	if count < 0 {
		return fmt.Errorf("--count must not be negative, got %d", count)
	}

	user, err := lookupUser(c, username)
	if err != nil {
		return err
	}

	end := models.TruncateToDay(now)
	start := models.MonthStart(end).AddDate(0, -(months - 1), 0)

	expenses := gen.GenerateExpenses(user.ID, start, end, count)
	expenses = append(expenses, gen.GenerateRecurringBills(user.ID, start, end)...)

	n, err := c.ExpenseService.ImportExpenses(user.ID, expenses)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  Seeded %d expenses for %s (%s to %s)\n",
		n, user.Username, start.Format(models.DisplayDateLayout), end.Format(models.DisplayDateLayout))
	return nil
}
