package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/freestreet/internal/api"
	"github.com/mcoot/freestreet/internal/config"
	"github.com/mcoot/freestreet/internal/factory"
)

func newServeCmd() *cobra.Command {
	var (
		host            string
		port            int
		storageType     string
		maxParticipants int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the server",
		Long: `Run the session server. Settings come from the environment
(LISTEN_PORT, STORAGE_TYPE, REDIS_URL, MAX_PARTICIPANTS, API_TOKEN, ...)
and the flags below override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				srv.ListenHost = host
			}
			if flags.Changed("port") {
				srv.ListenPort = port
			}
			if flags.Changed("storage") {
				srv.StorageType = storageType
			}
			if flags.Changed("max-participants") {
				srv.MaxParticipants = maxParticipants
			}
			if err := srv.Validate(); err != nil {
				return err
			}

			logger := srv.Logger(os.Stdout)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Serve(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (env: LISTEN_HOST)")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port (env: LISTEN_PORT)")
	cmd.Flags().StringVar(&storageType, "storage", factory.StorageTypeMemory, "Storage backend: memory, redis (env: STORAGE_TYPE)")
	cmd.Flags().IntVar(&maxParticipants, "max-participants", 500, "Participant slots (env: MAX_PARTICIPANTS)")

	return cmd
}

// Serve runs the API, the gateway and the jail sweeper until ctx is done
func Serve(ctx context.Context, srv *config.Config, logger *slog.Logger) error {
	app, err := factory.New(srv.Factory(logger))
	if err != nil {
		return err
	}
	if closer, ok := app.Storage.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Registry:      app.Registry,
		Accounts:      app.Accounts,
		Crews:         app.Crews,
		Gateway:       app.Gateway,
		OperatorToken: srv.APIToken,
	})
	server := api.NewServer(router, srv.Server(), logger)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go app.Engine.RunJailSweeper(sweepCtx, app.Clock, srv.JailSweepInterval)

	if err := server.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", srv.StorageType),
		slog.Int("max_participants", srv.MaxParticipants),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// Sockets are hijacked, so the HTTP shutdown does not wait for them
	shutdownErr := server.Shutdown(context.Background())
	app.Gateway.Close()
	app.Registry.Close(context.Background())

	logger.Info("server stopped")
	return shutdownErr
}
