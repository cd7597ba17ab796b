package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/server"
	"github.com/alexanderramin/queuecast/internal/service"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svcs, err := app.Services(ctx)
			if err != nil {
				return err
			}
			logger := app.logger()

			if app.Config.Forecast.Enabled {
				sched, err := service.NewForecastScheduler(svcs.Forecasts, app.Config.Forecast.Schedule, logger)
				if err != nil {
					return err
				}
				sched.Start()
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					sched.Stop(stopCtx)
				}()
			}

			if addr == "" {
				addr = app.Config.Server.Addr
			}
			srv := server.New(app.Config.Server, server.NewHandler(svcs.Predictions, svcs.Forecasts), logger)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :5000)")
	return cmd
}
