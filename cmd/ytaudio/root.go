package main

import (
	"github.com/spf13/cobra"

	"ytaudio/internal/pipeline"
	"ytaudio/internal/services"
)

type rootOption func(*commandContext)

func newRootCommand(opts ...rootOption) *cobra.Command {
	var configFlag string
	var runOpts pipeline.Options

	ctx := newCommandContext(&configFlag)
	for _, opt := range opts {
		opt(ctx)
	}

	rootCmd := &cobra.Command{
		Use:   "ytaudio URL DEST",
		Short: "Download a video's audio track, normalize it, and deliver it",
		Long: `Download the audio-only stream of a video, remux it into a fast-start M4A
with ffmpeg (optionally downmixed to mono), and deliver it.

DEST is either a local path or an rsync destination of the form
[user@]host:path. When DEST is an existing directory the file keeps the
name postprocess.m4a inside it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError("expected URL and DEST arguments, got %d", len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runOpts.URL = args[0]
			runOpts.Destination = args[1]
			return runPipeline(cmd, ctx, runOpts)
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return services.Wrap(services.ErrConfiguration, "", "", "invalid flags", err)
	})

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&runOpts.Workdir, "workdir", "", "Existing directory to download and transcode in (kept after the run)")
	rootCmd.Flags().BoolVar(&runOpts.SkipIfExists, "skip-if-exist", false, "Reuse a previously downloaded source.* file in the working directory")
	rootCmd.Flags().BoolVar(&runOpts.Mono, "mono", false, "Downmix the output to a single channel")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCleanCommand(ctx))

	return rootCmd
}

func runPipeline(cmd *cobra.Command, ctx *commandContext, opts pipeline.Options) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithExtractor(ctx.extractor),
		pipeline.WithExecutor(ctx.executor),
	)
	_, err = runner.Run(cmd.Context(), opts)
	return err
}
