package markdown

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

// Writer handles writing domain objects to markdown files
type Writer struct{}

// NewWriter creates a new Writer instance
func NewWriter() *Writer {
	return &Writer{}
}

// WriteProject writes a Project to a writer as markdown with YAML frontmatter
func (w *Writer) WriteProject(out io.Writer, project *domain.Project) error {
	fm, err := marshalFrontmatter(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project frontmatter: %w", err)
	}

	if _, err := out.Write(fm); err != nil {
		return fmt.Errorf("failed to write frontmatter: %w", err)
	}

	if project.Content != "" {
		if _, err := out.Write([]byte("\n" + project.Content + "\n")); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
	} else {
		defaultContent := fmt.Sprintf("\n# %s\n\nProject description and notes.\n", project.Title)
		if _, err := out.Write([]byte(defaultContent)); err != nil {
			return fmt.Errorf("failed to write default content: %w", err)
		}
	}

	return nil
}

// WriteProjectToFile writes a Project to a file
func (w *Writer) WriteProjectToFile(path string, project *domain.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return w.WriteProject(f, project)
}

// WriteTask writes a Task to a writer as markdown with YAML frontmatter
func (w *Writer) WriteTask(out io.Writer, task *domain.Task) error {
	fm, err := marshalFrontmatter(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task frontmatter: %w", err)
	}

	if _, err := out.Write(fm); err != nil {
		return fmt.Errorf("failed to write frontmatter: %w", err)
	}

	if task.Content != "" {
		if _, err := out.Write([]byte("\n" + task.Content + "\n")); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
	} else {
		defaultContent := fmt.Sprintf("\n# %s\n\nTask description.\n", task.Title)
		if _, err := out.Write([]byte(defaultContent)); err != nil {
			return fmt.Errorf("failed to write default content: %w", err)
		}
	}

	return nil
}

// WriteTaskToFile writes a Task to a file
func (w *Writer) WriteTaskToFile(path string, task *domain.Task) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return w.WriteTask(f, task)
}

// WriteClockToFile writes a clock sidecar as plain YAML
func (w *Writer) WriteClockToFile(path string, clock *domain.SlaClock) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(clock)
	if err != nil {
		return fmt.Errorf("failed to marshal clock: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write clock file: %w", err)
	}
	return nil
}
