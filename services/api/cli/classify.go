package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "classify <aqi>",
		Short: "Print the category for an AQI value",
		Args:  cobra.ExactArgs(1),
		RunE:  runClassify,
	})
}

func runClassify(cmd *cobra.Command, args []string) error {
	value, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid aqi %q", args[0])
	}

	info := aqi.Describe(value)
	if formatFlag == "text" {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d: %s (%s)\n", value, info.Label, info.Color)
		return err
	}
	return printJSON(cmd.OutOrStdout(), info)
}
