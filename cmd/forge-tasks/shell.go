package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/pkg/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL over the task store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		return shell.New(s).Run()
	},
}
