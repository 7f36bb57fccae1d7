package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amparo-health/screening/pkg/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog definition file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}

		layers := cat.Layers()
		questions, triggers, actions := 0, 0, 0
		for _, l := range layers {
			questions += len(l.Questions)
			triggers += len(l.Triggers)
			actions += len(l.Actions)
		}
		fmt.Printf("OK: %d layers, %d questions, %d triggers, %d actions (entry: %s)\n",
			len(layers), questions, triggers, actions, cat.Entry())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
