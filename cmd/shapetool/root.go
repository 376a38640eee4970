package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shapego"
)

type app struct {
	verbose bool
	logger  *shapego.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: shapego.NoopLogger()}

	root := &cobra.Command{
		Use:           "shapetool",
		Short:         "Pack, inspect and convert shape model representers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = shapego.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPackCmd(a),
		newInspectCmd(a),
		newVectorizeCmd(a),
		newReconstructCmd(a),
	)
	return root
}
