package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/worksheetz/internal/task"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Print the JSON shape of a task type, or list the types",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, k := range task.Kinds {
				fmt.Fprintln(out, k)
			}
			return nil
		}

		shape := task.Shape(task.Kind(args[0]))
		if shape == nil {
			return fmt.Errorf("unknown task type %q", args[0])
		}
		b, err := json.MarshalIndent(shape, "", "  ")
		if err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
		fmt.Fprintln(out, string(b))
		return nil
	},
}
