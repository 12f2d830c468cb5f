package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var exportOutputFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the SLA report as CSV",
	Long: `Export every task's SLA evaluation as CSV, ordered worst first. The
rows carry the same classification shown on the status dashboard, so a
spreadsheet and the terminal never disagree.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	results, err := client.EvaluateAll(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to evaluate tasks: %w", err)
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}
	slugs := make(map[string]string, len(projects))
	for _, p := range projects {
		slugs[p.ID] = p.Slug()
	}

	out := os.Stdout
	if exportOutputFlag != "" {
		f, err := os.Create(exportOutputFlag)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	header := []string{
		"task_id", "title", "project", "category", "status",
		"sla_status", "sla_level", "remaining_hours", "adjusted_due", "paused",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.Task.ID,
			r.Task.Title,
			slugs[r.Task.ProjectID],
			string(r.Task.Category),
			string(r.Task.Status),
			string(r.Info.Health),
			string(r.Info.Level),
			strconv.FormatFloat(r.Info.RemainingHours, 'f', 1, 64),
			r.Info.AdjustedDue.UTC().Format(time.RFC3339),
			strconv.FormatBool(r.Info.IsPaused),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	if exportOutputFlag != "" {
		fmt.Printf("%s Exported %d tasks to %s\n", successStyle.Render("✓"), len(results), exportOutputFlag)
	}
	return nil
}
