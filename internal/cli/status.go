package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/taskpulse/internal/service"
	"github.com/ihavespoons/taskpulse/internal/sla"
)

var statusAllFlag bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the SLA compliance dashboard",
	Long: `Show every task's SLA health, worst first: overdue tasks lead, then
tight ones, then paused, then healthy, with finished tasks at the bottom.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusAllFlag, "all", "a", false, "Include completed and closed tasks")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	results, err := client.EvaluateAll(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to evaluate tasks: %w", err)
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}
	titles := make(map[string]string, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
	}

	var rows []service.TaskSla
	counts := make(map[sla.Health]int)
	for _, r := range results {
		counts[r.Info.Health]++
		if !statusAllFlag && r.Task.Status.IsTerminal() {
			continue
		}
		rows = append(rows, r)
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("  SLA Compliance"))
	fmt.Println()
	fmt.Printf("  %s overdue   %s tight   %s paused   %d healthy   %d finished\n",
		redStyle.Render(fmt.Sprintf("%d", counts[sla.HealthOverdue])),
		amberStyle.Render(fmt.Sprintf("%d", counts[sla.HealthTight])),
		greyStyle.Render(fmt.Sprintf("%d", counts[sla.HealthPaused])),
		counts[sla.HealthNormal],
		counts[sla.HealthOnTime]+counts[sla.HealthCompletedLate],
	)
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("  Nothing to show.")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  SLA\tTASK\tPROJECT\tSTATUS\tREMAINING\tDEADLINE")

	for _, r := range rows {
		remaining := "-"
		if !r.Task.Status.IsTerminal() {
			remaining = fmt.Sprintf("%.1fh", r.Info.RemainingHours)
		}

		projectTitle := r.Task.ProjectID
		if title, ok := titles[r.Task.ProjectID]; ok {
			projectTitle = title
		}

		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			healthLabel(r.Info),
			r.Task.Title,
			projectTitle,
			statusLabel(r.Task.Status),
			remaining,
			r.Info.AdjustedDue.Format("2006-01-02 15:04"),
		)
	}

	w.Flush()
	fmt.Println()

	if counts[sla.HealthOverdue] > 0 {
		fmt.Println(dimStyle.Render("  Pause blocked work with 'taskpulse task pause <id>' to stop the clock."))
		fmt.Println()
	}
	return nil
}
