package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "resolve <area...>",
		Short: "Resolve an area through grounded live search",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runResolve,
	})
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.resolver.Resolve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		loc := res.Location
		fmt.Fprintf(out, "%s [%s]\n", loc.Name, loc.ID)
		fmt.Fprintf(out, "AQI %d  PM2.5 %.1f  PM10 %.1f  %.1f°C\n", loc.AQI, loc.Pollutants.PM25, loc.Pollutants.PM10, loc.Temperature)
		for _, c := range res.Citations {
			fmt.Fprintf(out, "  - %s %s\n", c.Title, c.URI)
		}
		return nil
	}
	return printJSON(out, res)
}
