package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/application/services/orchestration"
	httpapi "github.com/vsinha/mrpatp/pkg/interfaces/http"
)

var _ httpapi.Service = (*orchestration.PlanningOrchestrator)(nil)

const shutdownTimeout = 10 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, _, err := root.openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if port == "" {
				port = app.Config.Port
			}
			server := httpapi.NewServer(httpapi.Config{
				ServiceName:     app.Config.AppName,
				DefaultMaxDepth: app.Config.MaxDepth,
			}, app.Orchestrator, app.Registry, app.Logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(":" + port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error("http server shutdown failed", zap.Error(err))
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: PORT)")
	return cmd
}
