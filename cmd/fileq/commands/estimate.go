package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/fileq/cmd/fileq/opts"
	"github.com/walteh/fileq/pkg/fsx"
	"github.com/walteh/fileq/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewEstimateCmd creates a new estimate command
func NewEstimateCmd(ropts *opts.RootOpts) *cobra.Command {
	var excludes []string

	cmd := &cobra.Command{
		Use:   "estimate [paths...]",
		Short: "Estimate the size of an operation before queueing it",
		Long: `Estimate walks the given paths and reports how many files and bytes an
operation over them would touch. Unreadable entries are skipped, the same
way the queue's own estimator skips them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "estimate").Logger().WithContext(ctx)

			if err := fsx.ValidatePatterns(excludes); err != nil {
				return errors.Errorf("validating excludes: %w", err)
			}

			totals := fsx.Estimate(ctx, afero.NewOsFs(), args, excludes)
			ropts.UserLogger.Infof("%d path(s): %d file(s), %s",
				len(args), totals.Files, status.FormatBytes(totals.Bytes))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "glob patterns to skip")
	return cmd
}
