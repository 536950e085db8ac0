package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytaudio/internal/workdir"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale temporary working directories",
		Long: `Remove ytaudio-* temporary working directories left under the temp root by
runs that were killed before they could clean up. Directories newer than
--older-than (default: workdir.stale_after_hours) are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			age := olderThan
			if !cmd.Flags().Changed("older-than") {
				age = time.Duration(cfg.Workdir.StaleAfterHours) * time.Hour
			}
			if age < 0 {
				return usageError("--older-than must not be negative")
			}

			root := cfg.TempRoot()
			result := workdir.CleanStale(cmd.Context(), root, age, logger)

			out := cmd.OutOrStdout()
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintf(out, "No stale working directories under %s\n", root)
				return nil
			}
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			if len(result.Errors) > 0 {
				for _, failure := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed to remove %s: %v\n", failure.Path, failure.Error)
				}
				return fmt.Errorf("clean: %d directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Minimum age of directories to remove (e.g. 12h)")
	return cmd
}
