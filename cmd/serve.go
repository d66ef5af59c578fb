package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rackhost/core/config"
	"rackhost/core/logger"
	"rackhost/core/registry"
	"rackhost/core/storage"
	"rackhost/feature/rack"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured application",
	Long:  `Creates the configured server, mounts the application and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Storage (lazy client; only dialed by bucket apps)
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 4. Registry and Host
		reg := registry.New(logg)
		host := rack.NewHost(reg, rack.NewBuilders(), store, logg)

		// 5. Run until a termination signal cancels the context
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sopts := cfg.Server
		sopts.AutoStart = true
		srv, err := host.Run(ctx, sopts.Name, sopts, cfg.Mount)
		if err != nil {
			return err
		}
		logg.Info("serving",
			zap.String("server", srv.Name()),
			zap.Strings("mounts", srv.Mounts()),
		)

		<-ctx.Done()
		logg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return reg.Shutdown(shutdownCtx)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
