package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var (
	listStatus   string
	listPriority string
	listAssignee string
	listLabel    string
	listReady    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "todo|in-progress|done|blocked")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "high|medium|low")
	listCmd.Flags().StringVar(&listAssignee, "assignee", "", "assignee")
	listCmd.Flags().StringVar(&listLabel, "label", "", "single label match")
	listCmd.Flags().BoolVar(&listReady, "ready", false, "only tasks with no unsatisfied dependency")
}

// statusFromFlag maps the CLI's kebab-case status spelling to the
// store's canonical title-case Status value.
func statusFromFlag(s string) task.Status {
	switch s {
	case "todo":
		return task.StatusTodo
	case "in-progress":
		return task.StatusInProgress
	case "done":
		return task.StatusDone
	case "blocked":
		return task.StatusBlocked
	default:
		return ""
	}
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	filter := task.Filter{
		Status:   statusFromFlag(listStatus),
		Priority: task.Priority(listPriority),
		Assignee: listAssignee,
		Label:    listLabel,
		Ready:    listReady,
	}
	tasks, errs := s.List(filter)
	warnMalformed(errs)
	return renderMany(tasks, resolveMode())
}
