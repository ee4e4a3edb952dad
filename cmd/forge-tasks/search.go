package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var (
	searchStatus   string
	searchPriority string
	searchAssignee string
	searchLabel    string
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Case-insensitive substring search over title and body sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchStatus, "status", "", "todo|in-progress|done|blocked")
	searchCmd.Flags().StringVar(&searchPriority, "priority", "", "high|medium|low")
	searchCmd.Flags().StringVar(&searchAssignee, "assignee", "", "assignee")
	searchCmd.Flags().StringVar(&searchLabel, "label", "", "single label match")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "cap the number of results (0 = unlimited)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	filter := task.Filter{
		Status:   statusFromFlag(searchStatus),
		Priority: task.Priority(searchPriority),
		Assignee: searchAssignee,
		Label:    searchLabel,
	}
	tasks, errs := s.Search(args[0], filter)
	warnMalformed(errs)
	if searchLimit > 0 && len(tasks) > searchLimit {
		tasks = tasks[:searchLimit]
	}
	return renderMany(tasks, resolveMode())
}
