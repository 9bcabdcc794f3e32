// File: cmd/config.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/autodeviq/iqcore/data"
	"github.com/spf13/cobra"
)

// configCmd represents the base command when called without any subcommands
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Manage iqcore configuration",
	Long: `View and change iqcore settings.

Every key can also be set through the environment, e.g. IQCORE_SERVER_ENDPOINT
for server.endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the location of the configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		usedCfgFile := data.NewConfigStore().ConfigFileUsed()
		defaultPath := getDefaultConfigFilePath()
		if usedCfgFile != "" {
			fmt.Printf("Configuration file in use: %s\n", usedCfgFile)
			if usedCfgFile != defaultPath {
				fmt.Printf("Note: This differs from the default path: %s\n", defaultPath)
			}
		} else {
			fmt.Printf("No configuration file loaded.\nDefault location is: %s\n", defaultPath)
		}
	},
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"print"},
	Short:   "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeYAML(os.Stdout, data.NewConfigStore().AllSettings())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value and save it",
	Long: `Set a configuration value and save it.

Keys:
  ` + strings.Join(data.Keys(), "\n  ") + `

mode.keywords takes a comma separated list; timeouts take durations like 30s.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewConfigStore()
		if err := store.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Printf("%s = %v\n", strings.ToLower(args[0]), store.Get(args[0]))
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export configuration to a file",
	Long: `Export current configuration to a file.

If no file is specified, the configuration will be exported to 'iqcore-config.yaml'
in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportFile := "iqcore-config.yaml"
		if len(args) > 0 {
			exportFile = args[0]
		}
		if err := data.NewConfigStore().Export(exportFile); err != nil {
			return fmt.Errorf("error exporting configuration: %w", err)
		}
		fmt.Printf("Configuration exported successfully to: %s\n", exportFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configSetCmd, configExportCmd)
}
