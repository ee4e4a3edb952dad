package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/internal/taskcfg"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	s, err := task.Init(root, taskcfg.Config{Prefix: "TASK"}, false)
	if err != nil {
		t.Fatalf("task.Init: %v", err)
	}
	var buf bytes.Buffer
	return &Shell{store: s, output: &buf}, &buf
}

func TestHandleCreateThenView(t *testing.T) {
	sh, buf := newTestShell(t)
	sh.handleCreate([]string{"write", "the", "docs"})
	out := buf.String()
	if !strings.Contains(out, "created TASK-1") {
		t.Fatalf("unexpected create output: %q", out)
	}

	buf.Reset()
	sh.handleView([]string{"TASK-1"})
	if !strings.Contains(buf.String(), "write the docs") {
		t.Fatalf("view output missing title: %q", buf.String())
	}
}

func TestHandleListShowsCreatedTasks(t *testing.T) {
	sh, buf := newTestShell(t)
	sh.handleCreate([]string{"first", "task"})
	buf.Reset()

	sh.handleList(nil)
	if !strings.Contains(buf.String(), "TASK-1") {
		t.Fatalf("list output missing task: %q", buf.String())
	}
}

func TestHandleStatusUpdatesTask(t *testing.T) {
	sh, buf := newTestShell(t)
	sh.handleCreate([]string{"ship", "it"})
	buf.Reset()

	sh.handleStatus([]string{"TASK-1", "in-progress"})
	if !strings.Contains(buf.String(), "In Progress") {
		t.Fatalf("expected status update output, got %q", buf.String())
	}
}

func TestHandleViewUnknownIDReportsError(t *testing.T) {
	sh, buf := newTestShell(t)
	sh.handleView([]string{"TASK-404"})
	if !strings.Contains(buf.String(), "error:") {
		t.Fatalf("expected error message, got %q", buf.String())
	}
}

func TestHandleCheckRequiresValidIndex(t *testing.T) {
	sh, buf := newTestShell(t)
	sh.handleCreate([]string{"task", "with", "ac"})
	buf.Reset()

	sh.handleCheck([]string{"TASK-1", "not-a-number"}, true)
	if !strings.Contains(buf.String(), "invalid index") {
		t.Fatalf("expected invalid index message, got %q", buf.String())
	}
}
