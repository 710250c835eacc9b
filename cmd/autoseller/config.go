package main

import (
	"fmt"

	"github.com/pokeclicker-automation/autoseller/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Helpers for editing autoseller.yaml",
}

var encryptTokenCmd = &cobra.Command{
	Use:   "encrypt-token <token>",
	Short: "Encrypt a bot token for this windows user, paste the output into autoseller.yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := config.EncryptSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), enc)

		return nil
	},
}

func init() {
	configCmd.AddCommand(encryptTokenCmd)
}
