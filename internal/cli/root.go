package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ncmu-dev/ncmu/internal/config"
	"github.com/ncmu-dev/ncmu/internal/display"
	"github.com/ncmu-dev/ncmu/internal/source"
	"github.com/ncmu-dev/ncmu/internal/units"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags.
var (
	jsonOutput   bool
	configFlag   string
	debugFlag    bool
	intervalFlag time.Duration
	metricFlag   string
	logFlag      string
	replayFlag   string
)

// logDefault is the NoOptDefVal of --log: the flag was given without a path.
const logDefault = "default"

var rootCmd = &cobra.Command{
	Use:   "ncmu",
	Short: display.CBold + "ncmu" + display.CReset + " - process tree memory usage",
	Long: `Interactive view of the process tree with each process's memory
aggregated over its descendants. Navigate with the arrow keys, expand with
enter, go back with esc; q quits.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runDashboard(cmd)
	},
}

// coloredHelpTemplate is the Cobra help template with ANSI colors.
var coloredHelpTemplate = `{{with .Long}}{{. | trimTrailingWhitespaces}}

{{end}}` +
	`{{if or .Runnable .HasSubCommands}}` + display.CYellow + `Usage:` + display.CReset + `{{end}}
{{if .Runnable}}  {{.UseLine}}{{end}}` +
	`{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

` +
	`{{if .HasExample}}` + display.CYellow + `Examples:` + display.CReset + `
{{.Example}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}` + display.CYellow + `Available Commands:` + display.CReset + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  ` + display.CCyan + `{{rpad .Name .NamePadding}}` + display.CReset + `  {{.Short}}{{end}}{{end}}

{{end}}` +
	`{{if .HasAvailableLocalFlags}}` + display.CYellow + `Flags:` + display.CReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableInheritedFlags}}` + display.CYellow + `Global Flags:` + display.CReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.StringVar(&configFlag, "config", "", "path to ncmu.config.json")
	pf.BoolVar(&debugFlag, "debug", false, "debug logging and strict state checks")
	pf.DurationVar(&intervalFlag, "interval", config.DefaultInterval, "refresh interval")
	pf.StringVar(&metricFlag, "metric", "rss", "memory figure per process: rss, swap or rss+swap")
	pf.StringVar(&logFlag, "log", "", "write a debug log (default $NCMU_HOME/ncmu.log)")
	pf.Lookup("log").NoOptDefVal = logDefault
	pf.StringVar(&replayFlag, "replay", "", "read snapshots from a JSON file instead of the live system")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(newconfigCmd)
}

// Execute sets up the root command and runs cobra.
func Execute() {
	rootCmd.Version = Version
	rootCmd.SetHelpTemplate(coloredHelpTemplate)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// settings loads the config file and applies command-line overrides.
func settings(cmd *cobra.Command) (*config.Resolved, *config.LoadResult, []string, error) {
	home := units.Home()
	result, err := config.Load(home, configFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	resolved, warnings, err := config.Resolve(result.Config, home)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := applyFlags(cmd, resolved); err != nil {
		return nil, nil, nil, err
	}
	return resolved, result, warnings, nil
}

// applyFlags overrides r with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, r *config.Resolved) error {
	flags := cmd.Flags()
	if flags.Changed("interval") {
		if intervalFlag < config.MinInterval {
			return fmt.Errorf("--interval must be >= %s (got: %s)", config.MinInterval, intervalFlag)
		}
		r.Interval = intervalFlag
	}
	if flags.Changed("metric") {
		m, err := source.ParseMetric(metricFlag)
		if err != nil {
			return err
		}
		r.Metric = m
	}
	if flags.Changed("log") {
		if logFlag == logDefault || logFlag == "" {
			r.LogFile = units.LogPath()
		} else {
			r.LogFile = logFlag
		}
	}
	if debugFlag {
		if r.LogFile == "" {
			r.LogFile = units.LogPath()
		}
		r.LogLevel = slog.LevelDebug
	}
	return nil
}

// snapshotSource returns the replay file source when --replay is set,
// otherwise the live process table.
func snapshotSource(r *config.Resolved) (source.Source, error) {
	if replayFlag != "" {
		return source.LoadReplay(replayFlag)
	}
	return &source.PS{Metric: r.Metric}, nil
}
