package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/config"
	"github.com/ericoliveiras/artkey-store/internal/database"
	"github.com/ericoliveiras/artkey-store/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "artkey-store",
	Short: "Storefront backend for personalized prints and ArtKey portals",
	Long: `artkey-store serves the storefront API: catalog, cart and checkout,
the print design editor (crop placement, print specs, PDF export) and the
ArtKey portals unlocked by the QR code printed on an order.

Back-office deletes that must respect referential guards are available as
subcommands.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and connects to the database.
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, log, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
