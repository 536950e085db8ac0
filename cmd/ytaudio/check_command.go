package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytaudio/internal/deps"
	"ytaudio/internal/logging"
	"ytaudio/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var remote bool
	var offline bool
	var workdir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether required tools and directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := logging.IsTerminal(out)

			fmt.Fprintf(out, "Config: %s\n\n", ctx.configPath)

			statuses := deps.CheckBinaries(deps.Requirements(cfg, remote))
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				kind := statusOK
				detail := status.Path
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					detail = status.Detail
				}
				toolRows = append(toolRows, []string{status.Name, statusLabel(kind, colorize), status.Description, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Status", "Purpose", "Detail"},
				toolRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Workdir: workdir, Offline: offline})
			checkRows := make([][]string, 0, len(results))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				checkRows = append(checkRows, []string{result.Name, statusLabel(kind, colorize), result.Detail})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			missing := deps.MissingRequired(statuses)
			if len(missing) > 0 || preflight.Failed(results) {
				problems := append([]string(nil), missing...)
				for _, result := range results {
					if !result.Passed {
						problems = append(problems, result.Name)
					}
				}
				return errors.New("check failed: " + strings.Join(problems, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Require rsync for remote delivery")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip network reachability checks")
	cmd.Flags().StringVar(&workdir, "workdir", "", "Also check this working directory")
	return cmd
}
