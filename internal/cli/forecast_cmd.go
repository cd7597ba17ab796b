package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
	"github.com/alexanderramin/queuecast/internal/domain"
)

func newForecastCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Produce or show stored per-section staffing forecasts",
	}
	cmd.AddCommand(newForecastRunCmd(app), newForecastShowCmd(app))
	return cmd
}

func newForecastRunCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Predict headcount for every known section and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := forecastDate(date)
			if err != nil {
				return err
			}
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svcs.Forecasts.ForecastDay(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatForecasts(day.Format(domain.DateLayout), out))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to forecast (YYYY-MM-DD, default tomorrow)")
	return cmd
}

func newForecastShowCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored forecast for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := forecastDate(date)
			if err != nil {
				return err
			}
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svcs.Forecasts.Get(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatForecasts(day.Format(domain.DateLayout), out))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, default tomorrow)")
	return cmd
}

func forecastDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}
