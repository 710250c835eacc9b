package main

import (
	"github.com/pokeclicker-automation/autoseller/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagWindow    bool
)

var rootCmd = &cobra.Command{
	Use:           "autoseller",
	Short:         "Automatically sells underground treasures and plates",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAutomation,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "config", "directory holding autoseller.yaml and its template")

	runCmd.Flags().BoolVar(&flagWindow, "window", false, "open the settings panel in a native window (windows only)")
	rootCmd.Flags().AddFlagSet(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	path, err := config.Bootstrap(flagConfigDir)
	if err != nil {
		return nil, err
	}

	return config.Load(path)
}
