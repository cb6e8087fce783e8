package cmd

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/mkmf/pkg/mkmf"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the generated Makefile and everything it built",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		_, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		items := append([]string{cfg.Output}, mkmf.Artifacts()...)
		for _, item := range items {
			info, err := appFs.Stat(item)
			if err != nil {
				if force && eris.Is(err, os.ErrNotExist) {
					continue
				}
				return eris.Wrapf(err, "Could not stat %s", item)
			}

			if info.IsDir() {
				return eris.Errorf("%s is a directory", item)
			}
		}

		for _, item := range items {
			err := appFs.Remove(item)
			if err != nil && (!force || !eris.Is(err, os.ErrNotExist)) {
				return eris.Wrapf(err, "Could not delete %s", item)
			}

			if err == nil {
				logger.Info().Str("path", item).Msgf("Removed %s", item)
			}
		}

		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolP("force", "f", false, "suppresses errors caused by missing files")
	rootCmd.AddCommand(cleanCmd)
}
