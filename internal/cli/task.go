package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ihavespoons/taskpulse/internal/domain"
	"github.com/ihavespoons/taskpulse/internal/sla"
)

var (
	taskProjectFlag  string
	taskCategoryFlag string
	taskPriorityFlag string
	taskStatusFlag   string
	taskDueFlag      string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Tasks are tracked work items with a category-specific lifecycle and an SLA clock.`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with their SLA health",
	RunE:  runTaskList,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCreate,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [new-status]",
	Short: "Change a task's status",
	Long: `Change a task's status. The transition is validated against the task's
category: generic tasks move freely within their statuses, bugs follow the
strict workflow. Moving into blocked pauses the SLA clock, moving out of it
resumes the clock.`,
	Args: cobra.ExactArgs(2),
	RunE: runTaskStatus,
}

var taskPauseCmd = &cobra.Command{
	Use:   "pause [task-id]",
	Short: "Pause the task's SLA clock",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskPause,
}

var taskResumeCmd = &cobra.Command{
	Use:   "resume [task-id]",
	Short: "Resume the task's SLA clock",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskResume,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskPauseCmd)
	taskCmd.AddCommand(taskResumeCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	// List flags
	taskListCmd.Flags().StringVarP(&taskProjectFlag, "project", "p", "", "Filter by project slug")
	taskListCmd.Flags().StringVarP(&taskStatusFlag, "status", "s", "", "Filter by status")
	taskListCmd.Flags().StringVarP(&taskCategoryFlag, "category", "c", "", "Filter by category (task, bug)")

	// Create flags
	taskCreateCmd.Flags().StringVarP(&taskProjectFlag, "project", "p", "", "Project for the task (required)")
	taskCreateCmd.Flags().StringVarP(&taskCategoryFlag, "category", "c", "task", "Category (task, bug)")
	taskCreateCmd.Flags().StringVar(&taskPriorityFlag, "priority", "medium", "Priority (low, medium, high)")
	taskCreateCmd.Flags().StringVar(&taskDueFlag, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	_ = taskCreateCmd.MarkFlagRequired("project")
}

// statusLabel renders a status value for humans: in_progress -> In Progress
func statusLabel(s domain.Status) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// healthLabel renders an SLA health value with its color band
func healthLabel(info sla.Info) string {
	label := strings.ReplaceAll(string(info.Health), "_", " ")
	switch info.Level {
	case sla.LevelRed:
		return redStyle.Render(label)
	case sla.LevelAmber:
		return amberStyle.Render(label)
	case sla.LevelGrey:
		return greyStyle.Render(label)
	case sla.LevelSuccess:
		return successStyle.Render(label)
	default:
		return label
	}
}

func runTaskList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	results, err := client.EvaluateAll(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	var projectID string
	if taskProjectFlag != "" {
		project, err := client.GetProjectBySlug(ctx, taskProjectFlag)
		if err != nil {
			return fmt.Errorf("project not found: %s", taskProjectFlag)
		}
		projectID = project.ID
	}

	var filtered []struct {
		task *domain.Task
		info sla.Info
	}
	for _, r := range results {
		if projectID != "" && r.Task.ProjectID != projectID {
			continue
		}
		if taskStatusFlag != "" && string(r.Task.Status) != taskStatusFlag {
			continue
		}
		if taskCategoryFlag != "" && string(r.Task.Category) != taskCategoryFlag {
			continue
		}
		filtered = append(filtered, struct {
			task *domain.Task
			info sla.Info
		}{r.Task, r.Info})
	}

	if len(filtered) == 0 {
		fmt.Println("No tasks found. Create one with 'taskpulse task create <title> --project <slug>'")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tCATEGORY\tSTATUS\tSLA\tREMAINING\tDUE")
	fmt.Fprintln(w, "--\t----\t--------\t------\t---\t---------\t---")

	for _, f := range filtered {
		remaining := "-"
		if !f.task.Status.IsTerminal() {
			remaining = fmt.Sprintf("%.1fh", f.info.RemainingHours)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.task.ID,
			f.task.Title,
			f.task.Category,
			statusLabel(f.task.Status),
			healthLabel(f.info),
			remaining,
			f.info.AdjustedDue.Format("2006-01-02 15:04"),
		)
	}

	w.Flush()
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	title := args[0]

	project, err := client.GetProjectBySlug(ctx, taskProjectFlag)
	if err != nil {
		return fmt.Errorf("project not found: %s", taskProjectFlag)
	}

	category := domain.Category(taskCategoryFlag)
	if !category.IsValid() {
		return fmt.Errorf("invalid category '%s' (valid: task, bug)", taskCategoryFlag)
	}

	priority := domain.Priority(taskPriorityFlag)
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority '%s' (valid: low, medium, high)", taskPriorityFlag)
	}

	task := domain.NewTask(title, project.ID, category)
	task.Priority = priority

	if taskDueFlag != "" {
		due, err := parseDue(taskDueFlag)
		if err != nil {
			return err
		}
		task.DueAt = &due
	}

	created, err := client.CreateTask(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("%s Created %s '%s' (%s) in project '%s'\n",
		successStyle.Render("✓"), created.Category, created.Title, created.ID, project.Title)
	fmt.Printf("  Initial status: %s\n", statusLabel(created.Status))
	return nil
}

func parseDue(value string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, value); err == nil {
		return due.UTC(), nil
	}
	if due, err := time.Parse("2006-01-02", value); err == nil {
		return due.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date '%s' (use YYYY-MM-DD or RFC 3339)", value)
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	project, _ := client.GetProject(ctx, task.ProjectID)
	info, err := client.EvaluateTask(ctx, task.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	allowed, err := client.AllowedTransitions(ctx, task.ID)
	if err != nil {
		return err
	}
	clock, err := client.GetClock(ctx, task.ID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("  " + task.Title))
	fmt.Println()
	fmt.Printf("  ID:        %s\n", task.ID)
	if project != nil {
		fmt.Printf("  Project:   %s\n", project.Title)
	}
	fmt.Printf("  Category:  %s\n", task.Category)
	fmt.Printf("  Status:    %s\n", statusLabel(task.Status))
	fmt.Printf("  Priority:  %s\n", task.Priority)
	fmt.Printf("  Created:   %s\n", task.Created.Format("2006-01-02 15:04"))
	if task.DueAt != nil {
		fmt.Printf("  Due:       %s\n", task.DueAt.Format("2006-01-02 15:04"))
	}
	if task.CompletedAt != nil {
		fmt.Printf("  Completed: %s\n", task.CompletedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("  SLA:       %s\n", healthLabel(info))
	fmt.Printf("  Deadline:  %s\n", info.AdjustedDue.Format("2006-01-02 15:04"))
	if !task.Status.IsTerminal() {
		fmt.Printf("  Remaining: %.1fh\n", info.RemainingHours)
	}
	if info.IsPaused {
		fmt.Printf("  Clock:     %s (paused since %s)\n",
			greyStyle.Render("paused"), clock.PausedAt.Format("2006-01-02 15:04"))
	} else if clock.TotalPausedSeconds > 0 {
		fmt.Printf("  Clock:     running (%s paused in total)\n",
			(time.Duration(clock.TotalPausedSeconds) * time.Second).String())
	}

	labels := make([]string, len(allowed))
	for i, s := range allowed {
		labels[i] = statusLabel(s)
	}
	fmt.Println()
	fmt.Printf("  Next statuses: %s\n", strings.Join(labels, ", "))

	if task.Content != "" {
		fmt.Println()
		fmt.Println("  " + strings.ReplaceAll(task.Content, "\n", "\n  "))
	}
	fmt.Println()

	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id, next := args[0], domain.Status(args[1])

	task, err := client.GetTask(ctx, id)
	if err != nil {
		return err
	}
	current := task.Status

	if err := client.ChangeStatus(ctx, id, next); err != nil {
		return err
	}

	fmt.Printf("%s %s: %s -> %s\n",
		successStyle.Render("✓"), task.Title, statusLabel(current), statusLabel(next))

	if next == domain.StatusBlocked {
		fmt.Println(dimStyle.Render("  SLA clock paused while blocked"))
	} else if current == domain.StatusBlocked {
		fmt.Println(dimStyle.Render("  SLA clock resumed"))
	}
	return nil
}

func runTaskPause(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	if err := client.PauseClock(ctx, task.ID, time.Now().UTC()); err != nil {
		return err
	}

	fmt.Printf("%s Paused SLA clock for '%s'\n", successStyle.Render("✓"), task.Title)
	return nil
}

func runTaskResume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	if err := client.ResumeClock(ctx, task.ID, time.Now().UTC()); err != nil {
		return err
	}

	clock, err := client.GetClock(ctx, task.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s Resumed SLA clock for '%s' (%s paused in total)\n",
		successStyle.Render("✓"), task.Title,
		strconv.FormatInt(clock.TotalPausedSeconds, 10)+"s")
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	if err := client.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Printf("%s Deleted task '%s'\n", successStyle.Render("✓"), task.Title)
	return nil
}
