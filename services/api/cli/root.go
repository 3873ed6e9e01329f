// Package cli implements the hyderaqi commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

var formatFlag string

// RootCmd is the top-level command. Without a subcommand it serves the API.
var RootCmd = &cobra.Command{
	Use:          "hyderaqi",
	Short:        "Hyderabad air quality dashboard API",
	Long:         "Serves Hyderabad air quality readings, live-search resolution of other areas, health guidance and a chat assistant.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
