package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/mkmf/pkg/mkmf"
)

var compileCommandsCmd = &cobra.Command{
	Use:   "compile-commands [srcdir]",
	Short: "Writes a compile_commands.json for the sources built by the generated Makefile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := setup(cmd, args)
		if err != nil {
			return err
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		dir, err := cmd.Flags().GetString("directory")
		if err != nil {
			return err
		}

		if dir == "" {
			dir, err = os.Getwd()
			if err != nil {
				return eris.Wrap(err, "failed to retrieve the current working directory")
			}
		}

		blocks, err := mkmf.ExtractAll(ctx, appFs, cfg.SrcDir)
		if err != nil {
			return err
		}

		entries, err := mkmf.CompileCommands(cfg.SrcDir, filepath.Clean(dir), blocks)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return eris.Wrap(err, "failed to encode output")
		}

		err = mkmf.WriteFile(appFs, output, append(data, '\n'), 0644)
		if err != nil {
			return err
		}

		logger.Info().Str("path", output).Msgf("Wrote %d entries to %s", len(entries), output)
		return nil
	},
}

func init() {
	compileCommandsCmd.Flags().StringP("output", "o", "compile_commands.json", "path of the compilation database")
	compileCommandsCmd.Flags().StringP("directory", "d", "", "directory containing node.cc and node_main.c (default: the current directory)")
	rootCmd.AddCommand(compileCommandsCmd)
}
