package main

import (
	"fmt"
	"io"
	"time"

	"smartspend/internal/cli"
	"smartspend/internal/models"
	"smartspend/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagSince    string
	flagLimit    int
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Inspect expenses",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's expenses, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filters, err := listFilters(flagCategory, flagSince, flagLimit)
		if err != nil {
			return err
		}
		return withContainer(func(c *server.Container) error {
			return writeExpenseList(cmd.OutOrStdout(), c, flagUser, filters)
		})
	},
}

func init() {
	expensesListCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Username")
	expensesListCmd.Flags().StringVar(&flagCategory, "category", "", "Only this category")
	expensesListCmd.Flags().StringVar(&flagSince, "since", "", "Only expenses on or after this date (YYYY-MM-DD)")
	expensesListCmd.Flags().IntVarP(&flagLimit, "limit", "n", models.DefaultExpensePageSize, "Maximum rows")

	expensesCmd.AddCommand(expensesListCmd)
	rootCmd.AddCommand(expensesCmd)
}

func listFilters(category, since string, limit int) (models.ExpenseFilters, error) {
	filters := models.ExpenseFilters{Limit: limit}

	if category != "" {
		if !models.IsValidCategory(category) {
			return filters, fmt.Errorf("unknown category %q", category)
		}
		filters.Category = category
	}

	if since != "" {
		t, err := time.Parse(models.DateLayout, since)
		if err != nil {
			return filters, fmt.Errorf("invalid --since date %q: expected YYYY-MM-DD", since)
		}
		filters.StartDate = &t
	}

	return filters, nil
}

func writeExpenseList(out io.Writer, c *server.Container, username string, filters models.ExpenseFilters) error {
	user, err := lookupUser(c, username)
	if err != nil {
		return err
	}

	expenses, total, err := c.ExpenseService.ListExpenses(user.ID, filters)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(out, "  No expenses found.")
		return nil
	}

	table, err := cli.RenderExpenseTable(expenses, c.Config.App.CurrencySymbol)
	if err != nil {
		return err
	}
	fmt.Fprint(out, table)
	fmt.Fprintf(out, "\n  Showing %d of %d expenses\n", len(expenses), total)
	return nil
}
