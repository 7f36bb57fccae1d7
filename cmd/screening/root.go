package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screening",
	Short: "Progressive health-screening engine",
	Long: `Screening drives employees through layered health questionnaires,
escalating to more detailed layers and surfacing actions based on
trigger rules over their answers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("definitions", "", "Path to a catalog YAML file (default: builtin catalog)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for session persistence (empty: in-memory)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database")
	rootCmd.PersistentFlags().Duration("session-ttl", 0, "Session expiration (0: no expiration)")
	rootCmd.PersistentFlags().StringSlice("pii-mask", nil, "Question id patterns to mask before persisting")
}
