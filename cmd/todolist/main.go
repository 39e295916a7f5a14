package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/todolist/internal/cli"
	"github.com/dmitrijs2005/todolist/internal/server"
	"golang.org/x/term"
)

func main() {
	ctx := context.Background()

	cmd := cli.NewRootCmd(&cli.Env{
		Logger:       server.NewLogger(),
		In:           int(os.Stdin.Fd()),
		ReadPassword: term.ReadPassword,
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
