package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Catalog CLI settings",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting in ~/.catalog.yaml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("error setting %s: %w", args[0], err)
		}
		fmt.Printf("%s set successfully.\n", args[0])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Printf("%s is not set.\n", args[0])
			return nil
		}
		fmt.Println(value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kv := range config.All() {
			fmt.Printf("%s = %s\n", kv[0], kv[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
}
