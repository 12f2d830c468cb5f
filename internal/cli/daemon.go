package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ihavespoons/taskpulse/internal/daemon"
)

var daemonScheduleFlag string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the periodic SLA sweep",
	Long: `Run the background daemon that periodically re-evaluates every task's
SLA health and records when tasks first cross the amber, red, and overdue
thresholds. Runs in the foreground until interrupted.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonScheduleFlag, "schedule", "", "Sweep schedule in cron syntax (overrides config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	schedule := viper.GetString("daemon.schedule")
	if daemonScheduleFlag != "" {
		schedule = daemonScheduleFlag
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "taskpulse",
		Level: hclog.LevelFromString(viper.GetString("log_level")),
	})

	if schedule == "" {
		schedule = daemon.DefaultSchedule
	}

	d := daemon.NewDaemon(daemon.Config{
		Client:   client,
		Logger:   logger,
		Schedule: schedule,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	fmt.Printf("%s Daemon running (schedule %s). Press Ctrl+C to stop.\n",
		successStyle.Render("✓"), schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nStopping daemon...")
	d.Stop()
	return nil
}
