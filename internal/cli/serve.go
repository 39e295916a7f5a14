package cli

import (
	"github.com/dmitrijs2005/todolist/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Run the HTTP server until interrupted",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := server.NewApp(ctx, cfg, env.Logger)
			if err != nil {
				return err
			}
			env.serve(ctx, app)
			return nil
		},
	}
}
