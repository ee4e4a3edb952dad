package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readFile parses one backing file into a Task, validating the
// frontmatter id against the filename's ID prefix.
func (s *Store) readFile(path string) (Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{}, err
	}
	fmRaw, bodyRaw, err := splitFrontmatter(data)
	if err != nil {
		if me, ok := err.(*MalformedTaskError); ok {
			me.Path = path
		}
		return Task{}, err
	}
	fm, err := parseFrontmatterNode(fmRaw)
	if err != nil {
		return Task{}, &MalformedTaskError{Path: path, Reason: err.Error()}
	}

	id, _ := fm.get("id")
	title, _ := fm.get("title")
	if id == "" {
		return Task{}, &MalformedTaskError{Path: path, Reason: "frontmatter is missing id"}
	}
	if title == "" {
		return Task{}, &MalformedTaskError{Path: path, Reason: "frontmatter is missing title"}
	}

	base := strings.TrimSuffix(filepath.Base(path), ".md")
	if sep := strings.Index(base, " - "); sep >= 0 {
		filenameID := base[:sep]
		if !strings.EqualFold(filenameID, id) {
			return Task{}, &IDMismatchError{Path: path, FrontmatterID: id, FilenameID: filenameID}
		}
	}

	statusStr, _ := fm.get("status")
	priorityStr, _ := fm.get("priority")
	assignee, _ := fm.get("assignee")
	labels, _ := fm.getSeq("labels")
	deps, _ := fm.getSeq("dependencies")
	dueDate, _ := fm.get("due_date")
	createdAt, _ := fm.get("created_at")
	updatedAt, _ := fm.get("updated_at")

	body, err := parseBody(bodyRaw)
	if err != nil {
		if me, ok := err.(*MalformedTaskError); ok {
			me.Path = path
		}
		return Task{}, err
	}

	return Task{
		ID:                  id,
		Title:               title,
		Status:              Status(statusStr),
		Priority:            Priority(priorityStr),
		Assignee:            assignee,
		Labels:              labels,
		Dependencies:        deps,
		DueDate:             dueDate,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
		Description:         body.description,
		ImplementationPlan:  body.implementationPlan,
		ImplementationNotes: body.implementationNotes,
		AcceptanceCriteria:  body.acceptanceCriteria,
		path:                path,
	}, nil
}

// write serializes t to its backing file. When existingPath names a
// file already on disk, that file's frontmatter node is reused so
// unknown fields present on it survive the write unchanged; otherwise
// a fresh mapping is built in the canonical field order.
func (s *Store) write(t Task, existingPath string) error {
	fm := newFrontmatterNode()
	if existingPath != "" {
		if raw, err := os.ReadFile(existingPath); err == nil {
			if oldFM, oldBody, err := splitFrontmatter(raw); err == nil {
				if parsed, err := parseFrontmatterNode(oldFM); err == nil {
					fm = parsed
				}
				_ = oldBody
			}
		}
	}

	fm.set("id", t.ID)
	fm.set("title", t.Title)
	fm.set("status", string(t.Status))
	if t.Priority != "" {
		fm.set("priority", string(t.Priority))
	}
	if t.Assignee != "" {
		fm.set("assignee", t.Assignee)
	}
	fm.setSeq("labels", t.Labels)
	fm.setSeq("dependencies", t.Dependencies)
	if t.DueDate != "" {
		fm.set("due_date", t.DueDate)
	}
	fm.set("created_at", t.CreatedAt)
	fm.set("updated_at", t.UpdatedAt)

	fmBytes, err := fm.marshal()
	if err != nil {
		return fmt.Errorf("marshal frontmatter for %s: %w", t.ID, err)
	}

	bodyBytes := renderBody(parsedBody{
		description:         t.Description,
		implementationPlan:  t.ImplementationPlan,
		implementationNotes: t.ImplementationNotes,
		acceptanceCriteria:  t.AcceptanceCriteria,
	})

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(t.path, joinFrontmatter(fmBytes, bodyBytes), 0o644)
}
