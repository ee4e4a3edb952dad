package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <ID>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	id := args[0]

	if !deleteForce {
		t, err := s.Get(id)
		if err != nil {
			return err
		}
		fmt.Printf("delete %s (%s)? [y/N] ", t.ID, t.Title)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := s.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}
