package task

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/forkhestra/forkhestra/internal/taskcfg"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is a handle onto one project's forge/tasks/ directory.
type Store struct {
	Root string
	Cfg  taskcfg.Config
}

// TasksDir returns the directory holding task files under root.
func TasksDir(root string) string {
	return filepath.Join(root, "forge", "tasks")
}

// Init creates the tasks directory and writes a fresh config file,
// failing with AlreadyInitializedError unless force is set.
func Init(root string, cfg taskcfg.Config, force bool) (*Store, error) {
	if taskcfg.Exists(root) && !force {
		return nil, &AlreadyInitializedError{Path: taskcfg.Path(root)}
	}
	if err := os.MkdirAll(TasksDir(root), 0o755); err != nil {
		return nil, err
	}
	if err := taskcfg.Save(root, cfg); err != nil {
		return nil, err
	}
	return &Store{Root: root, Cfg: cfg}, nil
}

// Open loads an existing store's config, failing with
// NotInitializedError if none exists.
func Open(root string) (*Store, error) {
	cfg, err := taskcfg.Load(root)
	if err != nil {
		if _, ok := err.(*taskcfg.NotFoundError); ok {
			return nil, &NotInitializedError{Path: taskcfg.Path(root)}
		}
		return nil, err
	}
	return &Store{Root: root, Cfg: cfg}, nil
}

// CreateInput is the caller-supplied subset of Task fields accepted by
// Create; config defaults are applied for anything left empty.
type CreateInput struct {
	Title               string
	Description         string
	ImplementationPlan  string
	Priority            Priority
	Assignee            string
	Labels              []string
	Dependencies        []string
	DueDate             string
	AcceptanceCriteria  []string // initial criterion text, in order
}

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// Create allocates the next ID, applies config defaults, and writes
// the backing file.
func (s *Store) Create(in CreateInput) (Task, error) {
	existing, _ := s.allFilenames()
	n := nextID(existing, s.Cfg.EffectivePrefix())
	id := CanonicalID(s.Cfg.EffectivePrefix(), n, s.Cfg.ZeroPadding)

	priority := in.Priority
	if priority == "" {
		priority = Priority(s.Cfg.DefaultPriority)
	}
	labels := in.Labels
	if labels == nil {
		labels = append([]string(nil), s.Cfg.DefaultLabels...)
	} else {
		labels = dedupPreserveOrder(labels)
	}

	ts := now()
	acs := make([]AcceptanceCriterion, 0, len(in.AcceptanceCriteria))
	for i, text := range in.AcceptanceCriteria {
		acs = append(acs, AcceptanceCriterion{Index: i + 1, Text: text})
	}

	t := Task{
		ID:                  id,
		Title:               in.Title,
		Status:              StatusTodo,
		Priority:            priority,
		Assignee:            in.Assignee,
		Labels:              labels,
		Dependencies:        dedupPreserveOrder(in.Dependencies),
		DueDate:             in.DueDate,
		CreatedAt:           ts,
		UpdatedAt:           ts,
		Description:         in.Description,
		ImplementationPlan:  in.ImplementationPlan,
		AcceptanceCriteria:  acs,
	}
	t.path = filepath.Join(TasksDir(s.Root), filename(id, t.Title))

	if err := s.write(t, ""); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Get performs a case-insensitive ID lookup.
func (s *Store) Get(id string) (Task, error) {
	tasks, errs := s.loadAll()
	for _, t := range tasks {
		if strings.EqualFold(t.ID, id) {
			return t, nil
		}
	}
	if len(errs) > 0 {
		// a malformed file may itself be the one the caller wanted;
		// surface the specific reason instead of a bare NotFound.
		for _, e := range errs {
			if me, ok := e.(*MalformedTaskError); ok && strings.Contains(me.Path, id) {
				return Task{}, me
			}
		}
	}
	return Task{}, &NotFoundError{ID: id}
}

// Update applies patch to the task identified by id, refreshing
// updated_at and renaming the backing file if the title changed.
// Rejects patches that would introduce a dependency cycle.
func (s *Store) Update(id string, patch Patch) (Task, error) {
	all, _ := s.loadAll()
	idx := -1
	for i, t := range all {
		if strings.EqualFold(t.ID, id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	t := all[idx]
	oldPath := t.path
	oldTitle := t.Title

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.Labels != nil {
		t.Labels = dedupPreserveOrder(patch.Labels)
	}
	if patch.Dependencies != nil {
		t.Dependencies = dedupPreserveOrder(patch.Dependencies)
		if err := checkNoCycle(all, idx, t.ID, t.Dependencies); err != nil {
			return Task{}, err
		}
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ImplementationPlan != nil {
		t.ImplementationPlan = *patch.ImplementationPlan
	}
	if patch.ImplementationNotes != nil {
		t.ImplementationNotes = *patch.ImplementationNotes
	}
	t.UpdatedAt = now()

	if t.Title != oldTitle {
		t.path = filepath.Join(TasksDir(s.Root), filename(t.ID, t.Title))
	}

	if err := s.write(t, oldPath); err != nil {
		return Task{}, err
	}
	if t.path != oldPath {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			return Task{}, err
		}
	}
	return t, nil
}

// Delete removes the backing file for id.
func (s *Store) Delete(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	return os.Remove(t.path)
}

// ArchiveDir is where Archive moves a task's backing file. The store
// treats files under it as absent from every store operation, since
// they simply aren't under TasksDir anymore.
func ArchiveDir(root string) string {
	return filepath.Join(root, "forge", "Archive")
}

// Archive moves a task's file out of the tasks directory without
// deleting it.
func (s *Store) Archive(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	dir := ArchiveDir(s.Root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(t.path, filepath.Join(dir, filepath.Base(t.path)))
}

// List returns tasks matching filter, ordered by numeric ID suffix
// ascending, plus any malformed-file errors encountered along the way
// (never silently dropped, but never fatal to the rest of the listing).
func (s *Store) List(filter Filter) ([]Task, []error) {
	all, errs := s.loadAll()
	ready := readySet(all)
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if matches(t, filter, ready) {
			out = append(out, t)
		}
	}
	sortByNumericID(out)
	return out, errs
}

// Search performs a case-insensitive substring match over title,
// description, implementation plan, and implementation notes.
func (s *Store) Search(query string, filter Filter) ([]Task, []error) {
	all, errs := s.loadAll()
	ready := readySet(all)
	q := strings.ToLower(query)
	out := make([]Task, 0)
	for _, t := range all {
		if !matches(t, filter, ready) {
			continue
		}
		hay := strings.ToLower(t.Title + "\n" + t.Description + "\n" + t.ImplementationPlan + "\n" + t.ImplementationNotes)
		if strings.Contains(hay, q) {
			out = append(out, t)
		}
	}
	sortByNumericID(out)
	return out, errs
}

// AddAC appends a criterion with the next index.
func (s *Store) AddAC(id, text string) (Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return Task{}, err
	}
	t.AcceptanceCriteria = append(t.AcceptanceCriteria, AcceptanceCriterion{Index: len(t.AcceptanceCriteria) + 1, Text: text})
	return s.saveExisting(t)
}

// RemoveAC removes the criterion at index (1-based) and renumbers.
func (s *Store) RemoveAC(id string, index int) (Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return Task{}, err
	}
	if index < 1 || index > len(t.AcceptanceCriteria) {
		return Task{}, &InvalidACIndexError{TaskID: t.ID, Index: index}
	}
	out := make([]AcceptanceCriterion, 0, len(t.AcceptanceCriteria)-1)
	for i, ac := range t.AcceptanceCriteria {
		if i+1 == index {
			continue
		}
		ac.Index = len(out) + 1
		out = append(out, ac)
	}
	t.AcceptanceCriteria = out
	return s.saveExisting(t)
}

func (s *Store) setACChecked(id string, index int, checked bool) (Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return Task{}, err
	}
	if index < 1 || index > len(t.AcceptanceCriteria) {
		return Task{}, &InvalidACIndexError{TaskID: t.ID, Index: index}
	}
	t.AcceptanceCriteria[index-1].Checked = checked
	return s.saveExisting(t)
}

// CheckAC marks the criterion at index complete.
func (s *Store) CheckAC(id string, index int) (Task, error) { return s.setACChecked(id, index, true) }

// UncheckAC marks the criterion at index incomplete.
func (s *Store) UncheckAC(id string, index int) (Task, error) {
	return s.setACChecked(id, index, false)
}

func (s *Store) saveExisting(t Task) (Task, error) {
	t.UpdatedAt = now()
	if err := s.write(t, t.path); err != nil {
		return Task{}, err
	}
	return t, nil
}

// dedupPreserveOrder keeps first occurrence, drops later duplicates.
func dedupPreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func sortByNumericID(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		_, ni, _ := ParseID(tasks[i].ID)
		_, nj, _ := ParseID(tasks[j].ID)
		return ni < nj
	})
}

// readySet computes, for every task, whether it has no dependency
// currently in To Do/In Progress/Blocked. Unknown dependency IDs are
// treated as satisfied.
func readySet(all []Task) map[string]bool {
	byID := make(map[string]Task, len(all))
	for _, t := range all {
		byID[strings.ToUpper(t.ID)] = t
	}
	ready := make(map[string]bool, len(all))
	for _, t := range all {
		ok := true
		for _, dep := range t.Dependencies {
			depTask, found := byID[strings.ToUpper(dep)]
			if !found {
				continue
			}
			if depTask.Status == StatusTodo || depTask.Status == StatusInProgress || depTask.Status == StatusBlocked {
				ok = false
				break
			}
		}
		ready[strings.ToUpper(t.ID)] = ok
	}
	return ready
}

func matches(t Task, f Filter, ready map[string]bool) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Assignee != "" && !strings.EqualFold(t.Assignee, f.Assignee) {
		return false
	}
	if f.Label != "" {
		found := false
		for _, l := range t.Labels {
			if strings.EqualFold(l, f.Label) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Ready && !ready[strings.ToUpper(t.ID)] {
		return false
	}
	return true
}

// checkNoCycle performs a DFS from newDeps through the existing
// dependency edges, failing if id itself is reachable.
func checkNoCycle(all []Task, selfIdx int, id string, newDeps []string) error {
	byID := make(map[string][]string, len(all))
	for i, t := range all {
		if i == selfIdx {
			byID[strings.ToUpper(t.ID)] = newDeps
			continue
		}
		byID[strings.ToUpper(t.ID)] = t.Dependencies
	}

	visited := make(map[string]bool)
	target := strings.ToUpper(id)

	var dfs func(string) bool
	dfs = func(cur string) bool {
		if cur == target {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, dep := range byID[cur] {
			if dfs(strings.ToUpper(dep)) {
				return true
			}
		}
		return false
	}

	for _, dep := range newDeps {
		if dfs(strings.ToUpper(dep)) {
			return &CyclicDependencyError{ID: id}
		}
	}
	return nil
}

func (s *Store) allFilenames() ([]string, error) {
	entries, err := os.ReadDir(TasksDir(s.Root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".md")
		if i := strings.Index(name, " - "); i >= 0 {
			ids = append(ids, name[:i])
		}
	}
	return ids, nil
}

// loadAll scans the tasks directory, parsing every .md file. Files
// that fail to parse are reported as errors, never silently dropped
// and never mixed into the successful results.
func (s *Store) loadAll() ([]Task, []error) {
	dir := TasksDir(s.Root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{err}
	}

	var tasks []Task
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		t, err := s.readFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, errs
}
