package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyderaqi/hyderaqi/services/api/registry"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the locations table and load the built-in locations",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	})
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.store == nil {
		return errors.New("DATABASE_URL is required")
	}
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	locations := registry.Fixtures(time.Now().UTC())
	if err := a.store.UpsertLocations(ctx, locations); err != nil {
		return err
	}
	a.logger.Info("seeded locations", "count", len(locations))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d locations\n", len(locations))
	return err
}

