package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "insights <location-id>",
		Short: "Print health guidance for a registry location",
		Args:  cobra.ExactArgs(1),
		RunE:  runInsights,
	})
}

func runInsights(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	loc, ok := a.registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown location %q", args[0])
	}

	text := a.insights.Insights(cmd.Context(), loc)
	if formatFlag == "text" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]string{
		"location_id": loc.ID,
		"insights":    text,
	})
}
