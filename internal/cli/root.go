package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/config"
	"github.com/alexanderramin/queuecast/internal/service"
)

// Services are the prediction-side services. They need a built Engine, so
// they are opened on first use.
type Services struct {
	Predictions service.PredictionService
	Batches     service.BatchService
	Forecasts   service.ForecastService
}

// App holds what CLI commands need: configuration, the reference service
// and a loader for the Engine-backed services.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	References service.ReferenceService
	// OpenServices builds the Engine and the services over it. Commands that
	// only touch reference data never call it, so they work before any data
	// or artifacts exist.
	OpenServices func(ctx context.Context) (*Services, error)
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	once     sync.Once
	services *Services
	openErr  error
}

func (a *App) Services(ctx context.Context) (*Services, error) {
	a.once.Do(func() {
		if a.OpenServices == nil {
			a.openErr = fmt.Errorf("prediction services are not configured")
			return
		}
		a.services, a.openErr = a.OpenServices(ctx)
	})
	return a.services, a.openErr
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "queuecast" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "queuecast",
		Short:         "Appointment duration and staffing predictions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newPredictCmd(app),
		newImportCmd(app),
		newBatchCmd(app),
		newRunsCmd(app),
		newTasksCmd(app),
		newForecastCmd(app),
		newStatusCmd(app),
	)

	return root
}
