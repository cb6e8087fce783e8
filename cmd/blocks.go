package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ngld/mkmf/pkg/mkmf"
)

type blockInfo struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Flags  []string `yaml:"flags"`
}

var blocksCmd = &cobra.Command{
	Use:   "blocks [srcdir]",
	Short: "Prints the extracted variables as YAML",
	Long: `Extracts the same variables the generated Makefile contains and prints them as YAML
with each value split into individual flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := setup(cmd, args)
		if err != nil {
			return err
		}

		blocks, err := mkmf.ExtractAll(ctx, appFs, cfg.SrcDir)
		if err != nil {
			return err
		}

		result := make([]blockInfo, 0, len(blocks))
		for _, block := range blocks {
			flags, err := block.Flags()
			if err != nil {
				return err
			}

			result = append(result, blockInfo{
				Name:   block.Name,
				Source: block.Source,
				Flags:  flags,
			})
		}

		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		err = encoder.Encode(result)
		if err != nil {
			return eris.Wrap(err, "failed to encode blocks")
		}

		return encoder.Close()
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
