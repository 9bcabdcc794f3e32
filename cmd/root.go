// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string // To hold the path to the config file if specified via flag
	appConfigDir string // Store the calculated config directory path
	debugMode    bool   // Flag to enable debug logging

	// Global logger instance, configured by setupLogging
	logger = service.GetLogger()

	// Global cmd instance, to be used by subcommands
	rootCmd = &cobra.Command{
		Use:   "iqcore",
		Short: "Code intelligence for JSX/TSX projects",
		Long: `iqcore parses React projects, lists the JSX tags a file renders,
draws the component call graph and asks questions about the codebase
through a streaming askStream server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if appConfigDir != "" {
		if err := os.MkdirAll(appConfigDir, 0750); err != nil {
			service.Warnf("Error creating config directory '%s': %v\n", appConfigDir, err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if service.IsUserCancelError(err) {
			service.Debugf("%v", err)
		} else {
			service.Errorf("%v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	appConfigDir = data.GetConfigDir()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", data.GetConfigFilePath()))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging (overrides config file level)")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set logrus defaults before configuration is loaded
	service.InitLogger()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(appConfigDir)
		viper.SetConfigName("iqcore")
		viper.SetConfigType("yaml")
	}

	// IQCORE_SERVER_ENDPOINT overrides server.endpoint
	viper.SetEnvPrefix("iqcore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	data.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			service.Debugf("Config file not found in %s. Using defaults/env vars.", appConfigDir)
		} else if os.IsNotExist(err) {
			service.Debugf("Config file path %s does not exist. Using defaults/env vars.", viper.ConfigFileUsed())
		} else {
			service.Errorf("Error reading config file (%s): %v", viper.ConfigFileUsed(), err)
		}
	}

	setupLogging()
}

// setupLogging configures the global logger based on Viper settings and flags.
func setupLogging() {
	logLevelStr := viper.GetString(data.KeyLogLevel)

	// Flag overrides config
	level := log.InfoLevel
	if debugMode {
		level = log.DebugLevel
		logLevelStr = "debug"
	} else {
		var err error
		level, err = log.ParseLevel(logLevelStr)
		if err != nil {
			service.Warnf("Invalid log level '%s' in config, using 'info': %v", logLevelStr, err)
			level = log.InfoLevel
			logLevelStr = "info (due to invalid config value)"
		}
	}
	logger.SetLevel(level)

	service.Debugf("Logger initialized: level=%s ", logLevelStr)
}

// getDefaultConfigFilePath is used by 'config path'.
func getDefaultConfigFilePath() string {
	return data.GetConfigFilePath()
}
