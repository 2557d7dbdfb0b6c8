package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.SetConfigName("fluopanel")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("fluopanel")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No fluopanel.toml found in the current directory; using default settings.")
		} else {
			fmt.Fprintln(os.Stderr, "error loading configuration file:", err)
		}
	}
}

var debug bool
var configPath string

var rootCmd = &cobra.Command{
	Use:   "fluopanelctl",
	Short: "Fluopanel hosts a panel application's windows, popovers, and monitor tracking",
	Long:  `fluopanelctl runs the coordinator for a Fluopanel-based panel application. The run command always plays the coordinator role; a child role in the launch context is logged and otherwise ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose monitor and lifecycle logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fluopanel.toml", "path to the settings file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
