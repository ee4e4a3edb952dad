package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var acCmd = &cobra.Command{
	Use:   "ac",
	Short: "Manage a task's acceptance criteria",
}

var acAddCmd = &cobra.Command{
	Use:   "add <ID> <text>",
	Short: "Append an acceptance criterion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		t, err := s.AddAC(args[0], args[1])
		if err != nil {
			return err
		}
		return renderOne(t, resolveMode())
	},
}

var acRemoveCmd = &cobra.Command{
	Use:   "remove <ID> <index>",
	Short: "Remove an acceptance criterion and renumber the rest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		t, err := s.RemoveAC(args[0], idx)
		if err != nil {
			return err
		}
		return renderOne(t, resolveMode())
	},
}

var acCheckCmd = &cobra.Command{
	Use:   "check <ID> <index>",
	Short: "Mark an acceptance criterion complete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		t, err := s.CheckAC(args[0], idx)
		if err != nil {
			return err
		}
		return renderOne(t, resolveMode())
	},
}

var acUncheckCmd = &cobra.Command{
	Use:   "uncheck <ID> <index>",
	Short: "Mark an acceptance criterion incomplete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		t, err := s.UncheckAC(args[0], idx)
		if err != nil {
			return err
		}
		return renderOne(t, resolveMode())
	},
}

func init() {
	acCmd.AddCommand(acAddCmd, acRemoveCmd, acCheckCmd, acUncheckCmd)
}
