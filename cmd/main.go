package cmd

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ngld/mkmf/pkg/config"
	"github.com/ngld/mkmf/pkg/mkmf"
)

// appFs is swapped for an in-memory filesystem by the tests
var appFs = afero.NewOsFs()

var logger = zerolog.New(NewConsoleWriter(os.Stderr, true, false))

var rootCmd = &cobra.Command{
	Use:   "mkmf [srcdir]",
	Short: "Generates a standalone Makefile for an embedded node build",
	Long: `The node build process is a bit complex. This command extracts the necessary
flags from the generated makefiles in <srcdir>/out and writes a standalone Makefile
which builds node_main against the node library.

srcdir defaults to $HOME/git/node.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := setup(cmd, args)
		if err != nil {
			return err
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		if output == "" {
			output = cfg.Output
		}

		check, err := cmd.Flags().GetBool("check")
		if err != nil {
			return err
		}

		opts := mkmf.Options{
			SrcDir: cfg.SrcDir,
			Output: output,
		}

		if check {
			diff, err := mkmf.Check(ctx, appFs, opts)
			if diff != "" {
				_, wErr := io.WriteString(cmd.OutOrStdout(), diff)
				if wErr != nil {
					return eris.Wrap(wErr, "failed to print diff")
				}
			}

			return err
		}

		return mkmf.Generate(ctx, appFs, opts)
	},
}

// loadConfig loads the config, applies the global flags and returns a context carrying the
// configured logger.
func loadConfig(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, err = flags.GetString("log-level")
		if err != nil {
			return nil, nil, err
		}

		if err = cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	if flags.Changed("json") {
		cfg.Log.JSON, err = flags.GetBool("json")
		if err != nil {
			return nil, nil, err
		}
	}

	debugErrors = cfg.Debug
	var out io.Writer = NewConsoleWriter(cmd.ErrOrStderr(), cmd.ErrOrStderr() == os.Stderr, cfg.Debug)
	if cfg.Log.JSON {
		out = cmd.ErrOrStderr()
	}
	logger = zerolog.New(out).Level(cfg.LogLevel()).With().Timestamp().Logger()

	return mkmf.WithLogger(context.Background(), &logger), cfg, nil
}

// setup works like loadConfig but also resolves the node checkout from args, the config
// or $HOME (in that order).
func setup(cmd *cobra.Command, args []string) (context.Context, *config.Config, error) {
	ctx, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	if len(args) > 0 {
		cfg.SrcDir = args[0]
	}

	if cfg.SrcDir == "" {
		cfg.SrcDir, err = mkmf.DefaultSrcDir(os.Getenv)
		if err != nil {
			return nil, nil, eris.Wrap(err, "no source directory passed")
		}
	}

	logger.Debug().Str("path", cfg.SrcDir).Msgf("Using node checkout at %s", cfg.SrcDir)
	return ctx, cfg, nil
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn or error)")
	rootCmd.PersistentFlags().Bool("json", false, "print log messages as JSON lines")
	rootCmd.Flags().StringP("output", "o", "", "path of the generated Makefile (default \"Makefile\")")
	rootCmd.Flags().BoolP("check", "c", false, "don't write anything; print a diff and fail if the Makefile is out of date")
}

// Execute runs the root command and exits with status 1 if it fails.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Fatal().Err(err).Msg("mkmf failed")
	}
}
