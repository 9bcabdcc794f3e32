// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Hardcode the version string here
const version = "v0.3.0"

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of iqcore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", rootCmd.CommandPath(), version)
	},
}
