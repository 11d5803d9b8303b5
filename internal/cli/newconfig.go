package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultConfig is the full ncmu.config.json with all keys and their defaults.
// Comments are not valid JSON, so we use descriptive field names and values.
const defaultConfig = `{
  "refresh": {
    "interval": "2s",
    "min_change": "1"
  },
  "memory": {
    "metric": "rss"
  },
  "logs": {
    "file": "~/.ncmu/ncmu.log",
    "level": "info",
    "max_size": "1M",
    "max_files": 3
  },
  "telemetry": {
    "telegraf": {
      "udp": "127.0.0.1:8094",
      "measurement": "ncmu",
      "top": 10
    }
  }
}`

var newconfigCmd = &cobra.Command{
	Use:   "newconfig",
	Short: "Print a sample ncmu.config.json with all defaults",
	Long: `Print a complete ncmu.config.json showing every available option
with its default value. Redirect to a file to bootstrap your config:

  ncmu newconfig > ~/.ncmu/ncmu.config.json

Then edit the file to your needs. Set a section to null to disable it:

  "logs": null           - no log file (the default without a config)
  "telemetry": null      - disable telegraf telemetry

memory.metric selects the per-process figure: "rss", "swap" or "rss+swap".
refresh.min_change is the smallest footprint change highlighted as an
update ("4K", "1M").`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(defaultConfig)
	},
}
