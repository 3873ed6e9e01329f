package cli

import (
	"github.com/spf13/cobra"

	httpserver "github.com/hyderaqi/hyderaqi/services/api/http"
	"github.com/hyderaqi/hyderaqi/services/api/session"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sessions := session.NewStore(session.Deps{
		Registry:  a.registry,
		History:   a.history,
		Resolver:  a.resolver,
		Insights:  a.insights,
		Assistant: a.assistant,
		Logger:    a.logger.With("component", "session"),
	}, a.cfg.SessionTTL)

	srv := httpserver.New(a.cfg, httpserver.Deps{
		Registry: a.registry,
		History:  a.history,
		Resolver: a.resolver,
		Insights: a.insights,
		Sessions: sessions,
		Logger:   a.logger.With("component", "http"),
	})
	a.logger.Info("REST API listening", "addr", a.cfg.ListenAddr())

	return srv.Run(ctx)
}
