// Command forge-tasks is the CLI front end for the Task Store: a
// file-per-task markdown store rooted at forge/tasks/ in a project.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagRoot  string
	flagPlain bool
	flagJSON  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "forge-tasks",
	Short:         "Manage tasks stored as markdown files with YAML frontmatter",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "project root containing forge/tasks/")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "emit key=value lines instead of a table")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of a table")

	rootCmd.AddCommand(initCmd, createCmd, listCmd, viewCmd, editCmd, deleteCmd, searchCmd, acCmd, archiveCmd, mcpServeCmd, tuiCmd, shellCmd, schemaCmd)
}

// outputMode resolves the --plain/--json pair to a single mode,
// defaulting to the human-readable table when neither is set.
type outputMode int

const (
	modeTable outputMode = iota
	modePlain
	modeJSON
)

func resolveMode() outputMode {
	switch {
	case flagJSON:
		return modeJSON
	case flagPlain:
		return modePlain
	default:
		return modeTable
	}
}
