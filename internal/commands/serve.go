package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/server"
)

func newServeCommand() *cobra.Command {
	var repo string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyze and validate endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), repo, addr)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "repository directory for holerite.yaml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from holerite.yaml)")

	return cmd
}

func runServe(ctx context.Context, repo, addr string) error {
	proj, err := loadProject(repo)
	if err != nil {
		return err
	}
	cfg := proj.cfg
	if addr != "" {
		cfg.Server.Addr = addr
	}
	vopts, err := cfg.ValidateOptions()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := server.NewPipeline(money.DefaultRegistry(), cfg.Parsing.Locale, vopts)
	return server.New(cfg.Server, pipeline).ListenAndServe(ctx)
}
