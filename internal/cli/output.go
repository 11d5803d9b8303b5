package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ncmu-dev/ncmu/internal/display"
)

func outputJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		outputError(err.Error())
	}
	fmt.Println(string(data))
}

func outputError(msg string) {
	if jsonOutput {
		fmt.Printf("{\"error\":%q}\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", display.Red("Error:"), msg)
	}
	os.Exit(1)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", display.Yellow("WARNING:"), w)
	}
}
