package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ihavespoons/taskpulse/internal/domain"
	"github.com/ihavespoons/taskpulse/internal/storage"
	"github.com/ihavespoons/taskpulse/internal/storage/git"
)

// Store provides file-based storage for all domain objects
type Store struct {
	rootDir    string
	parser     *Parser
	writer     *Writer
	git        *git.Client
	autoCommit bool

	// clockMu serializes clock writes within this process so the version
	// check and the write behave as one atomic step.
	clockMu sync.Mutex
}

// NewStore creates a new file-based store
func NewStore(rootDir string) *Store {
	gitClient, _ := git.NewClient(rootDir)
	return &Store{
		rootDir:    rootDir,
		parser:     NewParser(),
		writer:     NewWriter(),
		git:        gitClient,
		autoCommit: true,
	}
}

// SetAutoCommit enables or disables automatic git commits
func (s *Store) SetAutoCommit(enabled bool) {
	s.autoCommit = enabled
}

// Git returns the git client
func (s *Store) Git() *git.Client {
	return s.git
}

// commit performs an auto-commit if enabled
func (s *Store) commit(action string) {
	if s.autoCommit && s.git != nil {
		_ = s.git.AutoCommit(action)
	}
}

// RootDir returns the root directory of the store
func (s *Store) RootDir() string {
	return s.rootDir
}

// Initialize creates the directory structure
func (s *Store) Initialize() error {
	dirs := []string{
		s.rootDir,
		filepath.Join(s.rootDir, "projects"),
		filepath.Join(s.rootDir, "archive"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ProjectRepository implementation

// ProjectRepo implements storage.ProjectRepository
type ProjectRepo struct {
	store *Store
}

// Projects returns the project repository
func (s *Store) Projects() *ProjectRepo {
	return &ProjectRepo{store: s}
}

func (r *ProjectRepo) projectDir(slug string) string {
	return filepath.Join(r.store.rootDir, "projects", slug)
}

func (r *ProjectRepo) projectFile(slug string) string {
	return filepath.Join(r.projectDir(slug), slug+".md")
}

// Create stores a new project
func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	slug := project.Slug()
	projectDir := r.projectDir(slug)

	if _, err := os.Stat(projectDir); err == nil {
		return fmt.Errorf("project '%s' already exists", slug)
	}

	tasksDir := filepath.Join(projectDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := r.store.writer.WriteProjectToFile(r.projectFile(slug), project); err != nil {
		_ = os.RemoveAll(projectDir)
		return err
	}

	r.store.commit(fmt.Sprintf("create project: %s", project.Title))
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		if project.ID == id {
			return project, nil
		}
	}

	return nil, fmt.Errorf("project not found: %s", id)
}

// GetBySlug retrieves a project by its slug
func (r *ProjectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	projectFile := r.projectFile(slug)
	if _, err := os.Stat(projectFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("project not found: %s", slug)
	}

	return r.store.parser.ParseProjectFromFile(projectFile)
}

// List returns all projects
func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	projectsDir := filepath.Join(r.store.rootDir, "projects")
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Project{}, nil
		}
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var projects []*domain.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		slug := entry.Name()
		projectFile := r.projectFile(slug)

		if _, err := os.Stat(projectFile); os.IsNotExist(err) {
			continue // Skip directories without a project file
		}

		project, err := r.store.parser.ParseProjectFromFile(projectFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse project %s: %w", slug, err)
		}

		projects = append(projects, project)
	}

	return projects, nil
}

// Update saves changes to an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	existing, err := r.Get(ctx, project.ID)
	if err != nil {
		return err
	}

	project.UpdateTimestamp()

	oldSlug := existing.Slug()
	newSlug := project.Slug()

	if oldSlug != newSlug {
		if err := os.Rename(r.projectDir(oldSlug), r.projectDir(newSlug)); err != nil {
			return fmt.Errorf("failed to rename project directory: %w", err)
		}
	}

	if err := r.store.writer.WriteProjectToFile(r.projectFile(newSlug), project); err != nil {
		return err
	}
	r.store.commit(fmt.Sprintf("update project: %s", project.Title))
	return nil
}

// Delete removes a project by ID
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	project, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(r.projectDir(project.Slug())); err != nil {
		return err
	}
	r.store.commit(fmt.Sprintf("delete project: %s", project.Title))
	return nil
}

// TaskRepository implementation

// TaskRepo implements storage.TaskRepository
type TaskRepo struct {
	store *Store
}

// Tasks returns the task repository
func (s *Store) Tasks() *TaskRepo {
	return &TaskRepo{store: s}
}

func (r *TaskRepo) taskFile(projectSlug, taskSlug string) string {
	return filepath.Join(r.store.rootDir, "projects", projectSlug, "tasks", taskSlug+".md")
}

// Create stores a new task
func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	project, err := r.store.Projects().Get(ctx, task.ProjectID)
	if err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	taskFile := r.taskFile(project.Slug(), task.Slug())
	if _, err := os.Stat(taskFile); err == nil {
		return fmt.Errorf("task '%s' already exists in project '%s'", task.Slug(), project.Slug())
	}

	if err := r.store.writer.WriteTaskToFile(taskFile, task); err != nil {
		return err
	}

	r.store.commit(fmt.Sprintf("create task: %s", task.Title))
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepo) Get(ctx context.Context, id string) (*domain.Task, error) {
	tasks, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}

	return nil, fmt.Errorf("task not found: %s", id)
}

// GetBySlug retrieves a task by its slug within a project
func (r *TaskRepo) GetBySlug(ctx context.Context, projectSlug, taskSlug string) (*domain.Task, error) {
	taskFile := r.taskFile(projectSlug, taskSlug)
	if _, err := os.Stat(taskFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("task not found: %s/%s", projectSlug, taskSlug)
	}

	return r.store.parser.ParseTaskFromFile(taskFile)
}

// List returns all tasks for a project
func (r *TaskRepo) List(ctx context.Context, projectID string) ([]*domain.Task, error) {
	project, err := r.store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return r.listByProjectSlug(project.Slug())
}

func (r *TaskRepo) listByProjectSlug(projectSlug string) ([]*domain.Task, error) {
	tasksDir := filepath.Join(r.store.rootDir, "projects", projectSlug, "tasks")
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read tasks directory: %w", err)
	}

	var tasks []*domain.Task
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		task, err := r.store.parser.ParseTaskFromFile(filepath.Join(tasksDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse task %s: %w", entry.Name(), err)
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// ListAll returns all tasks across all projects
func (r *TaskRepo) ListAll(ctx context.Context) ([]*domain.Task, error) {
	projects, err := r.store.Projects().List(ctx)
	if err != nil {
		return nil, err
	}

	var allTasks []*domain.Task
	for _, project := range projects {
		tasks, err := r.listByProjectSlug(project.Slug())
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}

	return allTasks, nil
}

// Update saves changes to an existing task
func (r *TaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	existing, err := r.Get(ctx, task.ID)
	if err != nil {
		return err
	}

	task.UpdateTimestamp()

	project, err := r.store.Projects().Get(ctx, task.ProjectID)
	if err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	oldSlug := existing.Slug()
	newSlug := task.Slug()

	if oldSlug != newSlug {
		oldFile := r.taskFile(project.Slug(), oldSlug)
		if err := os.Remove(oldFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old task file: %w", err)
		}
		// Carry the clock sidecar across the rename
		oldClock := r.store.Clocks().clockFile(project.Slug(), oldSlug)
		newClock := r.store.Clocks().clockFile(project.Slug(), newSlug)
		if _, err := os.Stat(oldClock); err == nil {
			_ = os.Rename(oldClock, newClock)
		}
	}

	if err := r.store.writer.WriteTaskToFile(r.taskFile(project.Slug(), newSlug), task); err != nil {
		return err
	}
	r.store.commit(fmt.Sprintf("update task: %s", task.Title))
	return nil
}

// Delete removes a task by ID
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	task, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	project, err := r.store.Projects().Get(ctx, task.ProjectID)
	if err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	if err := os.Remove(r.taskFile(project.Slug(), task.Slug())); err != nil {
		return err
	}
	_ = r.store.Clocks().Delete(ctx, id)

	r.store.commit(fmt.Sprintf("delete task: %s", task.Title))
	return nil
}

// ClockRepository implementation

// ClockRepo implements storage.ClockRepository. Each clock lives in a
// YAML sidecar next to its task file.
type ClockRepo struct {
	store *Store
}

// Clocks returns the clock repository
func (s *Store) Clocks() *ClockRepo {
	return &ClockRepo{store: s}
}

func (r *ClockRepo) clockFile(projectSlug, taskSlug string) string {
	return filepath.Join(r.store.rootDir, "projects", projectSlug, "tasks", taskSlug+".sla.yaml")
}

func (r *ClockRepo) fileForTask(ctx context.Context, taskID string) (string, error) {
	task, err := r.store.Tasks().Get(ctx, taskID)
	if err != nil {
		return "", err
	}
	project, err := r.store.Projects().Get(ctx, task.ProjectID)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}
	return r.clockFile(project.Slug(), task.Slug()), nil
}

// Get loads the clock for a task, or a fresh zero-version clock if none has
// been persisted yet.
func (r *ClockRepo) Get(ctx context.Context, taskID string) (*domain.SlaClock, error) {
	path, err := r.fileForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.NewSlaClock(taskID), nil
	}

	return r.store.parser.ParseClockFromFile(path)
}

// Update persists the clock under a compare-and-set on Version. The stored
// version must match the version the caller loaded; on success the version
// is bumped so any concurrent writer holding the stale clock fails with
// storage.ErrVersionConflict and retries.
func (r *ClockRepo) Update(ctx context.Context, clock *domain.SlaClock) error {
	path, err := r.fileForTask(ctx, clock.TaskID)
	if err != nil {
		return err
	}

	r.store.clockMu.Lock()
	defer r.store.clockMu.Unlock()

	var current int64
	if _, err := os.Stat(path); err == nil {
		stored, err := r.store.parser.ParseClockFromFile(path)
		if err != nil {
			return err
		}
		current = stored.Version
	}

	if clock.Version != current {
		return fmt.Errorf("clock for task %s: stored version %d, have %d: %w",
			clock.TaskID, current, clock.Version, storage.ErrVersionConflict)
	}

	clock.Version++
	if err := r.store.writer.WriteClockToFile(path, clock); err != nil {
		clock.Version--
		return err
	}

	r.store.commit(fmt.Sprintf("update sla clock: %s", clock.TaskID))
	return nil
}

// Delete removes the clock sidecar for a task, if any
func (r *ClockRepo) Delete(ctx context.Context, taskID string) error {
	path, err := r.fileForTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Ensure the markdown repos satisfy the storage interfaces
var (
	_ storage.ProjectRepository = (*ProjectRepo)(nil)
	_ storage.TaskRepository    = (*TaskRepo)(nil)
	_ storage.ClockRepository   = (*ClockRepo)(nil)
)
