package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

var (
	projectSlaHoursFlag int
	projectPriorityFlag string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Projects group tasks and may carry an SLA window override for their tasks.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE:  runProjectList,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectSetCmd = &cobra.Command{
	Use:   "set [project-slug]",
	Short: "Update a project's SLA window",
	Long: `Update a project's SLA window. A positive --sla-hours overrides the
global SLA window for the project's tasks; --sla-hours 0 removes the
override so the global setting applies again.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectSet,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectSetCmd)

	projectCreateCmd.Flags().IntVar(&projectSlaHoursFlag, "sla-hours", 0, "SLA window override in hours (0 = use global setting)")
	projectCreateCmd.Flags().StringVar(&projectPriorityFlag, "priority", "medium", "Priority (low, medium, high)")
	projectSetCmd.Flags().IntVar(&projectSlaHoursFlag, "sla-hours", 0, "SLA window override in hours (0 = remove override)")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with 'taskpulse project create <title>'")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tPROJECT\tSTATUS\tSLA WINDOW\tTASKS")
	fmt.Fprintln(w, "----\t-------\t------\t----------\t-----")

	for _, project := range projects {
		window := dimStyle.Render("global")
		if project.SlaHours != nil {
			window = strconv.Itoa(*project.SlaHours) + "h"
		}

		tasks, err := client.ListTasks(ctx, project.ID)
		if err != nil {
			return err
		}
		open := 0
		for _, t := range tasks {
			if !t.Status.IsTerminal() {
				open++
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d open / %d\n",
			project.Slug(), project.Title, project.Status, window, open, len(tasks))
	}

	w.Flush()
	return nil
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project := domain.NewProject(args[0])

	priority := domain.Priority(projectPriorityFlag)
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority '%s' (valid: low, medium, high)", projectPriorityFlag)
	}
	project.Priority = priority

	if projectSlaHoursFlag < 0 {
		return fmt.Errorf("sla-hours must be positive, got %d", projectSlaHoursFlag)
	}
	if projectSlaHoursFlag > 0 {
		hours := projectSlaHoursFlag
		project.SlaHours = &hours
	}

	created, err := client.CreateProject(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Printf("%s Created project '%s' (%s)\n", successStyle.Render("✓"), created.Title, created.Slug())
	if created.SlaHours != nil {
		fmt.Printf("  SLA window: %dh (overrides global setting)\n", *created.SlaHours)
	}
	return nil
}

func runProjectSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project, err := client.GetProjectBySlug(ctx, args[0])
	if err != nil {
		return fmt.Errorf("project not found: %s", args[0])
	}

	if projectSlaHoursFlag < 0 {
		return fmt.Errorf("sla-hours must be positive, got %d", projectSlaHoursFlag)
	}

	if projectSlaHoursFlag == 0 {
		project.SlaHours = nil
	} else {
		hours := projectSlaHoursFlag
		project.SlaHours = &hours
	}

	if err := client.UpdateProject(ctx, project); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if project.SlaHours == nil {
		fmt.Printf("%s Project '%s' now follows the global SLA window\n", successStyle.Render("✓"), project.Title)
	} else {
		fmt.Printf("%s Project '%s' SLA window set to %dh\n", successStyle.Render("✓"), project.Title, *project.SlaHours)
	}
	return nil
}
