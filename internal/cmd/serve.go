package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ericoliveiras/artkey-store/internal/database"
	"github.com/ericoliveiras/artkey-store/internal/server"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Run database migrations before serving")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if serveMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cfg.Uploads.Dir, 0o750); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.NewServer(cfg, db, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
