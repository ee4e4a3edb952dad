package main

import (
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
)

var (
	editTitle       string
	editStatus      string
	editPriority    string
	editAssignee    string
	editLabels      []string
	editDependsOn   []string
	editDue         string
	editDescription string
	editPlan        string
	editNotes       string
)

var editCmd = &cobra.Command{
	Use:   "edit <ID>",
	Short: "Update fields on an existing task",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editStatus, "status", "", "todo|in-progress|done|blocked")
	editCmd.Flags().StringVar(&editPriority, "priority", "", "high|medium|low")
	editCmd.Flags().StringVar(&editAssignee, "assignee", "", "assignee")
	editCmd.Flags().StringArrayVar(&editLabels, "label", nil, "replace the label set (repeatable)")
	editCmd.Flags().StringArrayVar(&editDependsOn, "depends-on", nil, "replace the dependency set (repeatable)")
	editCmd.Flags().StringVar(&editDue, "due", "", "due date, YYYY-MM-DD")
	editCmd.Flags().StringVar(&editDescription, "description", "", "replace the description")
	editCmd.Flags().StringVar(&editPlan, "plan", "", "replace the implementation plan")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "replace the implementation notes")
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := task.Open(flagRoot)
	if err != nil {
		return err
	}

	patch := task.Patch{}
	if cmd.Flags().Changed("title") {
		patch.Title = &editTitle
	}
	if cmd.Flags().Changed("status") {
		st := statusFromFlag(editStatus)
		patch.Status = &st
	}
	if cmd.Flags().Changed("priority") {
		pr := task.Priority(editPriority)
		patch.Priority = &pr
	}
	if cmd.Flags().Changed("assignee") {
		patch.Assignee = &editAssignee
	}
	if cmd.Flags().Changed("label") {
		patch.Labels = editLabels
	}
	if cmd.Flags().Changed("depends-on") {
		patch.Dependencies = editDependsOn
	}
	if cmd.Flags().Changed("due") {
		patch.DueDate = &editDue
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &editDescription
	}
	if cmd.Flags().Changed("plan") {
		patch.ImplementationPlan = &editPlan
	}
	if cmd.Flags().Changed("notes") {
		patch.ImplementationNotes = &editNotes
	}

	t, err := s.Update(args[0], patch)
	if err != nil {
		return err
	}
	return renderOne(t, resolveMode())
}
