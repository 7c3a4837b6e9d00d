package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/store"
)

// deleters maps each back-office entity to its guarded delete.
var deleters = map[string]func(context.Context, *gorm.DB, uint) error{
	"category": store.DeleteCategory,
	"customer": store.DeleteCustomer,
	"artist":   store.DeleteArtist,
}

func newDeleteCmd(kind string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s that nothing references any more", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db)
			return runDelete(cmd.Context(), db, cmd.OutOrStdout(), kind, args[0])
		},
	}
}

func runDelete(ctx context.Context, db *gorm.DB, out io.Writer, kind, rawID string) error {
	del, ok := deleters[kind]
	if !ok {
		return fmt.Errorf("unknown entity %q", kind)
	}
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid %s id %q", kind, rawID)
	}
	if err := del(ctx, db, uint(id)); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	fmt.Fprintf(out, "%s %d deleted\n", kind, id)
	return nil
}

func init() {
	for _, kind := range []string{"category", "customer", "artist"} {
		parent := &cobra.Command{Use: kind, Short: "Manage " + kind + " records"}
		parent.AddCommand(newDeleteCmd(kind))
		rootCmd.AddCommand(parent)
	}
}
