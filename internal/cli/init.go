package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/ihavespoons/taskpulse/internal/storage/markdown"
)

var initWithGit bool

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	amberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new taskpulse data directory",
	Long: `Initialize a new taskpulse data directory with the required structure.

This command will:
1. Create the data directory structure
2. Optionally initialize git for version control
3. Write a default config.yaml with the SLA settings`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initWithGit, "git", true, "Initialize git repository")
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("\n  Taskpulse - Task Tracking with SLA Compliance\n"))

	// Check if already initialized
	if _, err := os.Stat(filepath.Join(dataDir, "projects")); err == nil {
		return fmt.Errorf("taskpulse is already initialized at %s", dataDir)
	}

	fmt.Printf("Initializing taskpulse in %s\n\n", dimStyle.Render(dataDir))

	if err := markdown.NewStore(dataDir).Initialize(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	fmt.Println(successStyle.Render("✓") + " Created directory structure")

	if initWithGit {
		if err := initGit(dataDir); err != nil {
			fmt.Printf("  Warning: failed to initialize git: %v\n", err)
		} else {
			fmt.Println(successStyle.Render("✓") + " Initialized git repository")
		}
	}

	if err := createDefaultConfig(dataDir); err != nil {
		fmt.Printf("  Warning: failed to create config: %v\n", err)
	} else {
		fmt.Println(successStyle.Render("✓") + " Created config.yaml")
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Taskpulse initialized successfully!"))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  taskpulse project create \"My project\"")
	fmt.Println("  taskpulse task create \"My first task\" --project my-project")
	fmt.Println()

	return nil
}

func initGit(dir string) error {
	_, err := git.PlainInit(dir, false)
	return err
}

func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")
	content := `# Taskpulse configuration
data_dir: ` + dir + `

# Global SLA settings. A project's sla_hours overrides the window here.
sla:
  hours: "48"
  thresholds: '{"amber": 4, "red": 0}'

# SLA sweep daemon
daemon:
  schedule: "@every 5m"
`
	return os.WriteFile(configPath, []byte(content), 0644)
}
