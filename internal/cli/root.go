package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ihavespoons/taskpulse/internal/config"
	"github.com/ihavespoons/taskpulse/internal/service"
	"github.com/ihavespoons/taskpulse/internal/storage/markdown"
)

var (
	cfgFile string
	dataDir string
	store   *markdown.Store
	client  service.Client

	// Version info set by main
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "A task tracker with SLA compliance",
	Long: `Taskpulse tracks work items through category-specific lifecycles and
continuously evaluates each task against its service-level agreement.

Generic tasks move freely between their statuses; bugs follow a strict
workflow (new -> confirmed -> fixing -> verifying -> closed). Every task
carries a pausable SLA clock: time spent paused (for example while the
task is blocked) pushes the deadline back so it never counts against the
SLA window.

All data is stored as markdown files with YAML frontmatter, easy to edit
manually and track with version control.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip client initialization for commands that don't need it
		switch cmd.Name() {
		case "init", "version", "help", "completion":
			return nil
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.taskpulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default is ~/.taskpulse)")

	// Bind flags to viper
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		// Default config location
		configDir := filepath.Join(home, ".taskpulse")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("TASKPULSE")
	viper.AutomaticEnv()

	viper.SetDefault("log_level", "info")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err == nil {
		// Config loaded successfully
	}

	// Set data directory
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".taskpulse")
	}

	// Expand ~ in path
	if len(dataDir) >= 2 && dataDir[:2] == "~/" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, dataDir[2:])
	}
}

// initClient initializes the local store and client
func initClient() error {
	if _, err := os.Stat(filepath.Join(dataDir, "projects")); os.IsNotExist(err) {
		return fmt.Errorf("taskpulse not initialized. Run 'taskpulse init' first")
	}

	store = markdown.NewStore(dataDir)
	client = service.NewLocalClient(store, config.NewViperSettings())
	return nil
}

// GetClient returns the initialized client
func GetClient() service.Client {
	return client
}

// GetDataDir returns the data directory path
func GetDataDir() string {
	return dataDir
}
