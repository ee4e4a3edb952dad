package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse tasks interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	m, err := tui.New(s)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
