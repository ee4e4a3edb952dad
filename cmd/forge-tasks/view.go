package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var viewCmd = &cobra.Command{
	Use:   "view <ID>",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	t, err := s.Get(args[0])
	if err != nil {
		return err
	}
	return renderOne(t, resolveMode())
}
