package main

import (
	"fmt"

	"github.com/spf13/cobra"

	screening "github.com/amparo-health/screening"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the screening version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("screening %s\n", screening.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
