// Package shell implements an interactive REPL over a task store.
package shell

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/forkhestra/forkhestra/internal/task"
)

// Shell is a readline-backed REPL wrapping one task store.
type Shell struct {
	store  *task.Store
	output io.Writer
	rl     *readline.Instance
}

// New creates a Shell over store, writing to stdout.
func New(store *task.Store) *Shell {
	return &Shell{store: store, output: os.Stdout}
}

// Run starts the interactive loop until the user quits or stdin closes.
func (sh *Shell) Run() error {
	commands := []string{"list", "view", "create", "status", "check", "uncheck",
		"search", "archive", "delete", "help", "quit"}

	completer := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children, readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "forge-tasks> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	sh.rl = rl
	defer rl.Close()

	fmt.Fprintf(sh.output, "forge-tasks shell — %s\n", sh.store.Root)
	fmt.Fprintf(sh.output, "Type 'help' for available commands, 'quit' to exit.\n\n")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "list", "ls":
			sh.handleList(args)
		case "view", "show":
			sh.handleView(args)
		case "create", "new":
			sh.handleCreate(args)
		case "status":
			sh.handleStatus(args)
		case "check":
			sh.handleCheck(args, true)
		case "uncheck":
			sh.handleCheck(args, false)
		case "search":
			sh.handleSearch(args)
		case "archive":
			sh.handleArchive(args)
		case "delete", "rm":
			sh.handleDelete(args)
		case "help", "?":
			sh.handleHelp()
		case "quit", "exit", "q":
			fmt.Fprintln(sh.output, "Goodbye.")
			return nil
		default:
			fmt.Fprintf(sh.output, "Unknown command: %q. Type 'help' for available commands.\n", cmd)
		}
	}
}

func (sh *Shell) handleList(args []string) {
	filter := task.Filter{}
	if len(args) > 0 {
		filter.Status = statusFromArg(args[0])
	}
	tasks, errs := sh.store.List(filter)
	sh.warn(errs)
	for _, t := range tasks {
		fmt.Fprintf(sh.output, "%-12s %-8s %s\n", t.ID, t.Status, t.Title)
	}
}

func (sh *Shell) handleView(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.output, "usage: view <id>")
		return
	}
	t, err := sh.store.Get(args[0])
	if err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "%s: %s\n", t.ID, t.Title)
	fmt.Fprintf(sh.output, "status: %s priority: %s\n", t.Status, t.Priority)
	if t.Description != "" {
		fmt.Fprintf(sh.output, "\n%s\n", t.Description)
	}
	for _, ac := range t.AcceptanceCriteria {
		box := " "
		if ac.Checked {
			box = "x"
		}
		fmt.Fprintf(sh.output, "  [%s] #%d %s\n", box, ac.Index, ac.Text)
	}
}

func (sh *Shell) handleCreate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.output, "usage: create <title...>")
		return
	}
	t, err := sh.store.Create(task.CreateInput{Title: strings.Join(args, " ")})
	if err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "created %s\n", t.ID)
}

func (sh *Shell) handleStatus(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(sh.output, "usage: status <id> <status>")
		return
	}
	status := statusFromArg(args[1])
	t, err := sh.store.Update(args[0], task.Patch{Status: &status})
	if err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "%s is now %s\n", t.ID, t.Status)
}

func (sh *Shell) handleCheck(args []string, checked bool) {
	if len(args) < 2 {
		fmt.Fprintln(sh.output, "usage: check <id> <index>")
		return
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(sh.output, "error: invalid index %q\n", args[1])
		return
	}
	var t task.Task
	if checked {
		t, err = sh.store.CheckAC(args[0], idx)
	} else {
		t, err = sh.store.UncheckAC(args[0], idx)
	}
	if err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "%s AC #%d updated\n", t.ID, idx)
}

func (sh *Shell) handleSearch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.output, "usage: search <query...>")
		return
	}
	tasks, errs := sh.store.Search(strings.Join(args, " "), task.Filter{})
	sh.warn(errs)
	for _, t := range tasks {
		fmt.Fprintf(sh.output, "%-12s %s\n", t.ID, t.Title)
	}
}

func (sh *Shell) handleArchive(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.output, "usage: archive <id>")
		return
	}
	if err := sh.store.Archive(args[0]); err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "archived %s\n", args[0])
}

func (sh *Shell) handleDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.output, "usage: delete <id>")
		return
	}
	if err := sh.store.Delete(args[0]); err != nil {
		fmt.Fprintf(sh.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.output, "deleted %s\n", args[0])
}

func (sh *Shell) handleHelp() {
	fmt.Fprint(sh.output, `commands:
  list [status]             list tasks, optionally filtered by status
  view <id>                 show one task in full
  create <title...>         create a new task
  status <id> <status>      set a task's status
  check <id> <index>        check an acceptance criterion
  uncheck <id> <index>      uncheck an acceptance criterion
  search <query...>         search titles, descriptions, plans and notes
  archive <id>               move a task to the archive
  delete <id>                remove a task
  help                       show this message
  quit                       exit the shell
`)
}

// statusFromArg maps the shell's kebab-case status spelling to the
// store's canonical title-case Status value.
func statusFromArg(s string) task.Status {
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
		return task.Status(s)
	}
}

func (sh *Shell) warn(errs []error) {
	for _, err := range errs {
		fmt.Fprintf(sh.output, "warning: %v\n", err)
	}
}
