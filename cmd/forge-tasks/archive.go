package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <ID>",
	Short: "Move a task's file into forge/Archive/ without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		if err := s.Archive(args[0]); err != nil {
			return err
		}
		fmt.Printf("archived %s\n", args[0])
		return nil
	},
}
