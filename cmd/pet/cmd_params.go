package main

import (
	"github.com/spf13/cobra"

	"github.com/Desmondgtx/Effort-Task/taskconfig"
)

func newParamsCmd() *cobra.Command {
	var taskFile string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the effective task parameters as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := taskconfig.LoadFromPath(taskFile)
			if err != nil {
				return err
			}
			out, err := taskconfig.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&taskFile, "task", "t", "", "Task parameter file (YAML)")
	return cmd
}
