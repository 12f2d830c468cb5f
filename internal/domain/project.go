package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Project represents a collection of related tasks
type Project struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Type     string        `yaml:"type"`
	Status   ProjectStatus `yaml:"status"`
	Priority Priority      `yaml:"priority"`

	// SlaHours overrides the global SLA window for this project's tasks
	// when set to a positive value.
	SlaHours *int `yaml:"sla_hours,omitempty"`

	Timestamps

	// Content holds the markdown body (not stored in frontmatter)
	Content string `yaml:"-"`
}

// NewProject creates a new Project with generated ID and timestamps
func NewProject(title string) *Project {
	p := &Project{
		ID:       fmt.Sprintf("proj-%s", uuid.New().String()[:8]),
		Title:    title,
		Type:     "project",
		Status:   ProjectStatusActive,
		Priority: PriorityMedium,
	}
	p.SetCreated()
	return p
}

// Slug returns a URL-safe identifier derived from the title
func (p *Project) Slug() string {
	slug := strings.ToLower(p.Title)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Validate checks if the project has all required fields
func (p *Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project ID is required")
	}
	if p.Title == "" {
		return fmt.Errorf("project title is required")
	}
	if p.Type != "project" {
		return fmt.Errorf("project type must be 'project', got '%s'", p.Type)
	}
	if p.SlaHours != nil && *p.SlaHours <= 0 {
		return fmt.Errorf("project sla_hours must be positive, got %d", *p.SlaHours)
	}
	return nil
}

// IsActive returns true if the project is in an active state
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

// Archive marks the project as archived
func (p *Project) Archive() {
	p.Status = ProjectStatusArchived
	p.UpdateTimestamp()
}
