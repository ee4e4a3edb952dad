package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var (
	createDescription string
	createPlan        string
	createPriority    string
	createAssignee    string
	createLabels      []string
	createDue         string
	createDependsOn   []string
	createAC          []string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createDescription, "description", "", "free-form description")
	createCmd.Flags().StringVar(&createPlan, "plan", "", "implementation plan")
	createCmd.Flags().StringVar(&createPriority, "priority", "", "high|medium|low")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "assignee")
	createCmd.Flags().StringArrayVar(&createLabels, "label", nil, "label (repeatable)")
	createCmd.Flags().StringVar(&createDue, "due", "", "due date, YYYY-MM-DD")
	createCmd.Flags().StringArrayVar(&createDependsOn, "depends-on", nil, "dependency task ID (repeatable)")
	createCmd.Flags().StringArrayVar(&createAC, "ac", nil, "acceptance criterion text (repeatable)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}
	t, err := s.Create(task.CreateInput{
		Title:              args[0],
		Description:        createDescription,
		ImplementationPlan: createPlan,
		Priority:           task.Priority(createPriority),
		Assignee:           createAssignee,
		Labels:             createLabels,
		Dependencies:       createDependsOn,
		DueDate:            createDue,
		AcceptanceCriteria: createAC,
	})
	if err != nil {
		return err
	}
	return renderOne(t, resolveMode())
}
