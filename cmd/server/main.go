package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "kurtis-boutique"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kurtis-boutique",
		Short:        "Kurtis Boutique storefront API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and event workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), config.Load())
		},
	})

	return cmd
}

func migrate(ctx context.Context, cfg *config.Config) error {
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	logger.Info("Migrations applied", zap.Strings("files", applied))
	return nil
}
