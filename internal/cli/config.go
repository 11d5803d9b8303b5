package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncmu-dev/ncmu/internal/config"
	"github.com/ncmu-dev/ncmu/internal/display"
	"github.com/ncmu-dev/ncmu/internal/units"
)

var configValidate bool

var configShowCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		resolved, result, warnings, err := settings(cmd)
		if err != nil {
			outputError(err.Error())
		}

		if configValidate {
			printWarnings(warnings)
			fmt.Println("Configuration valid")
			return
		}

		if jsonOutput {
			outputJSON(configJSON(resolved, result, warnings))
			return
		}

		configLine := "(none found, using defaults)"
		if result.Path != "" {
			configLine = fmt.Sprintf("%s (%s)", result.Path, result.Source)
		}
		fmt.Printf("Config file:  %s\n", configLine)
		fmt.Printf("Home:         %s\n\n", units.Home())

		fmt.Printf("%s\n", display.Bold("Refresh:"))
		fmt.Printf("  Interval:     %s\n", resolved.Interval)
		fmt.Printf("  Min change:   %s\n\n", units.FormatBytes(resolved.MinChange))

		fmt.Printf("%s\n", display.Bold("Memory:"))
		fmt.Printf("  Metric:       %s\n\n", resolved.Metric)

		fmt.Printf("%s\n", display.Bold("Logs:"))
		if resolved.LogFile != "" {
			fmt.Printf("  File:         %s\n", resolved.LogFile)
			fmt.Printf("  Level:        %s\n", resolved.LogLevel)
			fmt.Printf("  Max size:     %s\n", units.FormatBytes(resolved.LogMaxSize))
			fmt.Printf("  Max files:    %d\n\n", resolved.LogMaxFiles)
		} else {
			fmt.Printf("  File:         %s\n\n", display.Dim("(off, use --log)"))
		}

		fmt.Printf("%s\n", display.Bold("Telemetry:"))
		if resolved.TelegrafEnabled && resolved.TelegrafAddr != nil {
			fmt.Printf("  Telegraf:     enabled\n")
			fmt.Printf("  UDP:          %s\n", resolved.TelegrafAddr.String())
			fmt.Printf("  Measurement:  %s\n", resolved.TelegrafMeas)
			fmt.Printf("  Top roots:    %d\n", resolved.TelegrafTop)
		} else {
			fmt.Printf("  Telegraf:     disabled\n")
		}

		if len(warnings) > 0 {
			fmt.Println()
			printWarnings(warnings)
		}
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configValidate, "validate", false, "validate config only")
}

func configJSON(r *config.Resolved, result *config.LoadResult, warnings []string) map[string]any {
	out := map[string]any{
		"config_file": result.Path,
		"source":      result.Source,
		"refresh": map[string]any{
			"interval":   r.Interval.String(),
			"min_change": r.MinChange,
		},
		"memory": map[string]any{
			"metric": r.Metric.String(),
		},
		"logs": map[string]any{
			"file":      r.LogFile,
			"level":     r.LogLevel.String(),
			"max_size":  r.LogMaxSize,
			"max_files": r.LogMaxFiles,
		},
		"telegraf": r.TelegrafEnabled,
	}
	if r.TelegrafEnabled && r.TelegrafAddr != nil {
		out["telegraf_addr"] = r.TelegrafAddr.String()
		out["telegraf_measurement"] = r.TelegrafMeas
		out["telegraf_top"] = r.TelegrafTop
	}
	if len(warnings) > 0 {
		out["warnings"] = warnings
	}
	return out
}
