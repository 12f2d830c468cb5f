package markdown

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

// Parser handles reading markdown files with YAML frontmatter
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseProject reads a markdown file and parses it into a Project
func (p *Parser) ParseProject(r io.Reader) (*domain.Project, error) {
	var project domain.Project
	content, err := frontmatter.Parse(r, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project frontmatter: %w", err)
	}
	project.Content = strings.TrimSpace(string(content))
	return &project, nil
}

// ParseProjectFromFile reads a file and parses it into a Project
func (p *Parser) ParseProjectFromFile(path string) (*domain.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()
	return p.ParseProject(f)
}

// ParseTask reads a markdown file and parses it into a Task
func (p *Parser) ParseTask(r io.Reader) (*domain.Task, error) {
	var task domain.Task
	content, err := frontmatter.Parse(r, &task)
	if err != nil {
		return nil, fmt.Errorf("failed to parse task frontmatter: %w", err)
	}
	task.Content = strings.TrimSpace(string(content))
	return &task, nil
}

// ParseTaskFromFile reads a file and parses it into a Task
func (p *Parser) ParseTaskFromFile(path string) (*domain.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer f.Close()
	return p.ParseTask(f)
}

// ParseClockFromFile reads a clock sidecar file
func (p *Parser) ParseClockFromFile(path string) (*domain.SlaClock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clock file: %w", err)
	}
	var clock domain.SlaClock
	if err := yaml.Unmarshal(data, &clock); err != nil {
		return nil, fmt.Errorf("failed to parse clock file: %w", err)
	}
	return &clock, nil
}

// marshalFrontmatter creates the YAML frontmatter block
func marshalFrontmatter(v interface{}) ([]byte, error) {
	yamlData, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlData)
	buf.WriteString("---\n")

	return buf.Bytes(), nil
}
