package main

import (
	"fmt"

	sLog "github.com/pokeclicker-automation/autoseller/cmd/autoseller/log"
	"github.com/pokeclicker-automation/autoseller/internal/seller"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
	"github.com/spf13/cobra"
)

var knownSettings = []string{
	seller.SettingFeatureEnabled,
	seller.SettingAutoSellTreasures,
	seller.SettingAutoSellPlates,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change stored automation settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the effective value of one setting, or of every known setting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSettingsApp()
		if err != nil {
			return err
		}
		defer a.close()

		keys := knownSettings
		if len(args) == 1 {
			keys = args
		}
		defaults := seller.DefaultValues()
		for _, key := range keys {
			v, found := a.store.Get(key)
			if !found {
				if d, ok := defaults[key]; ok {
					v = d + " (default)"
				} else {
					v = "(unset)"
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, v)
		}

		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <true|false>",
	Short: "Store a setting, picked up by the running automation on its next pass",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := args[1]
		if value != settings.True && value != settings.False {
			return fmt.Errorf("value must be %q or %q, got %q", settings.True, settings.False, value)
		}

		a, err := newSettingsApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.store.Set(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[0], value)

		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func newSettingsApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return newApp(cfg, sLog.NewConsoleLogger(cfg.LogLevel, cfg.Debug))
}
