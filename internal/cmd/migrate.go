package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ericoliveiras/artkey-store/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)
		return database.Migrate(db, log)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter catalog (categories, products, print catalog)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)
		if err := database.Migrate(db, log); err != nil {
			return err
		}
		return database.Seed(db, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
