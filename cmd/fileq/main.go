package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/walteh/fileq/cmd/fileq/commands"
	"github.com/walteh/fileq/cmd/fileq/opts"
	"gitlab.com/tozd/go/errors"
)

func main() {
	// Setup logging
	setupLogging()
	ctx := log.Logger.WithContext(context.Background())

	// Root options are filled in once flags are parsed
	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "fileq",
		Short: "A background queue for copy, move and delete jobs",
		Long: `fileq runs file operations through a single background worker with
progress tracking, pause and resume, conflict prompts, and a bounded
history of finished work.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newRootOpts(cmd.Context())
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}
			*rootOpts = *built
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewEstimateCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if rootOpts.UserLogger != nil {
			rootOpts.UserLogger.Errorf("command failed: %v", err)
		} else {
			log.Logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}
