package main

import (
	"errors"
	"fmt"
	"io"

	"smartspend/internal/cli"
	"smartspend/internal/models"
	"smartspend/internal/server"
	"smartspend/internal/services"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a user's dashboard metrics and forecast",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(func(c *server.Container) error {
			return writeSummary(cmd.OutOrStdout(), c, flagUser)
		})
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Username")
	rootCmd.AddCommand(summaryCmd)
}

func writeSummary(out io.Writer, c *server.Container, username string) error {
	user, err := lookupUser(c, username)
	if err != nil {
		return err
	}

	dashboard, err := c.DashboardService.GetDashboard(user.ID)
	if err != nil {
		return err
	}

	var forecast *models.Forecast
	if dashboard.HasData {
		forecast, err = c.ForecastService.Forecast(user.ID, c.Config.App.ForecastHorizon)
		if err != nil && !errors.Is(err, services.ErrInsufficientForecastData) {
			return err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderSummary(user.Username, dashboard, forecast, c.Config.App.CurrencySymbol))
	if dashboard.HasData && forecast == nil {
		fmt.Fprintln(out, "\n  Need at least 2 months of data for forecasting.")
	}
	return nil
}
