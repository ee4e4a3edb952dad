// Package task implements the Task Store: a file-per-task markdown
// store under forge/tasks/, with YAML frontmatter for structured
// fields and a fenced acceptance-criteria list in the body.
package task

// Status is one of the four lifecycle states a task can occupy.
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
	StatusBlocked    Status = "Blocked"
)

// Priority is optional; the zero value means unset.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AcceptanceCriterion is one line inside the AC fence: `- [ ] #N Text`.
type AcceptanceCriterion struct {
	Index   int
	Checked bool
	Text    string
}

// Task is one record from the store, round-tripped to/from its backing
// markdown file.
type Task struct {
	ID           string
	Title        string
	Status       Status
	Priority     Priority
	Assignee     string
	Labels       []string
	Dependencies []string
	DueDate      string
	CreatedAt    string
	UpdatedAt    string

	Description          string
	ImplementationPlan    string
	ImplementationNotes   string
	AcceptanceCriteria    []AcceptanceCriterion

	// path is the backing file's absolute path, set on load and
	// recomputed on rename; never serialized.
	path string
}

// Patch describes a partial update to a Task; nil fields are left
// untouched. Labels/Dependencies are wholesale replacements when
// non-nil, matching the store's update contract. Acceptance criteria
// are not part of Patch.
type Patch struct {
	Title        *string
	Status       *Status
	Priority     *Priority
	Assignee     *string
	Labels       []string
	Dependencies []string
	DueDate      *string
	Description  *string
	ImplementationPlan  *string
	ImplementationNotes *string
}

// Filter narrows list_tasks/search results.
type Filter struct {
	Status   Status
	Priority Priority
	Assignee string
	Label    string
	Ready    bool
}
