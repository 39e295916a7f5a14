package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/server"
	"github.com/dmitrijs2005/todolist/internal/server/services"
	"github.com/spf13/cobra"
)

func newPasswdCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:                "passwd <email> [flags]",
		Short:              "Set the password of a registered user",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := positionals(args)
			if len(pos) != 1 {
				return fmt.Errorf("passwd takes exactly one email, got %d arguments", len(pos))
			}
			email := pos[0]

			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			password, err := getNewPassword(env, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, rm, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			err = services.NewUserService(db, rm, env.Logger).SetPassword(ctx, email, password)
			switch {
			case errors.Is(err, common.ErrUnknownEmail):
				return fmt.Errorf("no user registered with %s", email)
			case errors.Is(err, common.ErrInvalidInput):
				return errors.New("password must not be empty")
			case err != nil:
				return err
			}

			env.Logger.Info(ctx, "password updated", "email", email)
			fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return nil
		},
	}
}
