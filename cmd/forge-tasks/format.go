package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/forkhestra/forkhestra/internal/task"
)

type jsonTask struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Status              string   `json:"status"`
	Priority            string   `json:"priority,omitempty"`
	Assignee            string   `json:"assignee,omitempty"`
	Labels              []string `json:"labels,omitempty"`
	Dependencies        []string `json:"dependencies,omitempty"`
	DueDate             string   `json:"due_date,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
	Description         string   `json:"description,omitempty"`
	ImplementationPlan  string   `json:"implementation_plan,omitempty"`
	ImplementationNotes string   `json:"implementation_notes,omitempty"`
	AcceptanceCriteria  []jsonAC `json:"acceptance_criteria,omitempty"`
}

type jsonAC struct {
	Index   int    `json:"index"`
	Checked bool   `json:"checked"`
	Text    string `json:"text"`
}

func toJSONTask(t task.Task) jsonTask {
	acs := make([]jsonAC, 0, len(t.AcceptanceCriteria))
	for _, ac := range t.AcceptanceCriteria {
		acs = append(acs, jsonAC{Index: ac.Index, Checked: ac.Checked, Text: ac.Text})
	}
	return jsonTask{
		ID: t.ID, Title: t.Title, Status: string(t.Status), Priority: string(t.Priority),
		Assignee: t.Assignee, Labels: t.Labels, Dependencies: t.Dependencies, DueDate: t.DueDate,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt, Description: t.Description,
		ImplementationPlan: t.ImplementationPlan, ImplementationNotes: t.ImplementationNotes,
		AcceptanceCriteria: acs,
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPlainTask renders key=value lines; compound fields use "," as
// separator; AC lines use ac.N=[ ]|[x] Text.
func printPlainTask(t task.Task) {
	fmt.Printf("id=%s\n", t.ID)
	fmt.Printf("title=%s\n", t.Title)
	fmt.Printf("status=%s\n", t.Status)
	fmt.Printf("priority=%s\n", t.Priority)
	fmt.Printf("assignee=%s\n", t.Assignee)
	fmt.Printf("labels=%s\n", strings.Join(t.Labels, ","))
	fmt.Printf("dependencies=%s\n", strings.Join(t.Dependencies, ","))
	fmt.Printf("due_date=%s\n", t.DueDate)
	fmt.Printf("created_at=%s\n", t.CreatedAt)
	fmt.Printf("updated_at=%s\n", t.UpdatedAt)
	fmt.Printf("description=%s\n", t.Description)
	fmt.Printf("implementation_plan=%s\n", t.ImplementationPlan)
	fmt.Printf("implementation_notes=%s\n", t.ImplementationNotes)
	for _, ac := range t.AcceptanceCriteria {
		box := " "
		if ac.Checked {
			box = "x"
		}
		fmt.Printf("ac.%d=[%s] %s\n", ac.Index, box, ac.Text)
	}
}

func printTableTask(t task.Task) {
	fmt.Printf("%s  %s\n", t.ID, t.Title)
	fmt.Printf("  status:   %s\n", t.Status)
	if t.Priority != "" {
		fmt.Printf("  priority: %s\n", t.Priority)
	}
	if t.Assignee != "" {
		fmt.Printf("  assignee: %s\n", t.Assignee)
	}
	if len(t.Labels) > 0 {
		fmt.Printf("  labels:   %s\n", strings.Join(t.Labels, ", "))
	}
	if len(t.Dependencies) > 0 {
		fmt.Printf("  depends:  %s\n", strings.Join(t.Dependencies, ", "))
	}
	fmt.Printf("  updated:  %s\n", t.UpdatedAt)
	if t.Description != "" {
		fmt.Printf("\n## Description\n%s\n", t.Description)
	}
	if t.ImplementationPlan != "" {
		fmt.Printf("\n## Implementation Plan\n%s\n", t.ImplementationPlan)
	}
	if len(t.AcceptanceCriteria) > 0 {
		fmt.Println("\n## Acceptance Criteria")
		for _, ac := range t.AcceptanceCriteria {
			box := " "
			if ac.Checked {
				box = "x"
			}
			fmt.Printf("  [%s] #%d %s\n", box, ac.Index, ac.Text)
		}
	}
	if t.ImplementationNotes != "" {
		fmt.Printf("\n## Implementation Notes\n%s\n", t.ImplementationNotes)
	}
}

func printTableRow(t task.Task) {
	priority := string(t.Priority)
	if priority == "" {
		priority = "-"
	}
	assignee := t.Assignee
	if assignee == "" {
		assignee = "-"
	}
	fmt.Printf("%-10s %-8s %-6s %-12s %s\n", t.ID, t.Status, priority, assignee, t.Title)
}

func renderOne(t task.Task, mode outputMode) error {
	switch mode {
	case modeJSON:
		return printJSON(toJSONTask(t))
	case modePlain:
		printPlainTask(t)
		return nil
	default:
		printTableTask(t)
		return nil
	}
}

func renderMany(tasks []task.Task, mode outputMode) error {
	switch mode {
	case modeJSON:
		out := make([]jsonTask, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, toJSONTask(t))
		}
		return printJSON(out)
	case modePlain:
		for i, t := range tasks {
			if i > 0 {
				fmt.Println("--")
			}
			printPlainTask(t)
		}
		return nil
	default:
		fmt.Printf("%-10s %-8s %-6s %-12s %s\n", "ID", "STATUS", "PRI", "ASSIGNEE", "TITLE")
		for _, t := range tasks {
			printTableRow(t)
		}
		return nil
	}
}

func warnMalformed(errs []error) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
}
