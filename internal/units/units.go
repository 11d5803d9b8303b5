// Package units holds the state directory layout and the size and duration
// formats shared by the CLI, the config file and the dashboard.
package units

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Home returns the ncmu state directory, respecting the NCMU_HOME env var.
func Home() string {
	if h := os.Getenv("NCMU_HOME"); h != "" {
		return h
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ncmu")
}

func ConfigPath() string { return filepath.Join(Home(), "ncmu.config.json") }
func LogPath() string    { return filepath.Join(Home(), "ncmu.log") }

// Duration wraps time.Duration with JSON string marshaling (Go duration format).
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(int64(val))
	case string:
		if val == "" {
			d.Duration = 0
			return nil
		}
		var err error
		d.Duration, err = time.ParseDuration(val)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}

const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// ParseSize parses a human-readable size ("4K", "10M", "1G", "512") to
// bytes. The empty string is zero.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(strings.ToUpper(s)), "B")
	if s == "" {
		return 0, nil
	}
	var multiplier int64 = 1
	numStr := s
	switch {
	case strings.HasSuffix(s, "G"):
		multiplier = GB
		numStr = s[:len(s)-1]
	case strings.HasSuffix(s, "M"):
		multiplier = MB
		numStr = s[:len(s)-1]
	case strings.HasSuffix(s, "K"):
		multiplier = KB
		numStr = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	return n * multiplier, nil
}

// FormatSize is the inverse of ParseSize ("1M", "50M", "1G").
func FormatSize(b int64) string {
	switch {
	case b >= GB && b%GB == 0:
		return fmt.Sprintf("%dG", b/GB)
	case b >= MB && b%MB == 0:
		return fmt.Sprintf("%dM", b/MB)
	case b >= KB && b%KB == 0:
		return fmt.Sprintf("%dK", b/KB)
	default:
		return fmt.Sprintf("%d", b)
	}
}

// FormatBytes formats a footprint for a table cell.
func FormatBytes(b int64) string {
	if b < 0 {
		return "?"
	}
	switch {
	case b >= GB:
		return fmt.Sprintf("%.1f GB", float64(b)/GB)
	case b >= MB:
		return fmt.Sprintf("%.1f MB", float64(b)/MB)
	case b >= KB:
		return fmt.Sprintf("%.1f KB", float64(b)/KB)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FormatMB formats a footprint in whole mebibytes, the dashboard's memory
// column unit.
func FormatMB(b int64) string {
	if b < 0 {
		return "?"
	}
	return fmt.Sprintf("%.1f MB", float64(b)/MB)
}

// FormatLatency formats a short duration such as a poll time.
func FormatLatency(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

// FormatDuration formats an age in a human-friendly way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 && seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Percent returns part as a percentage of whole, 0 when whole is not
// positive.
func Percent(part, whole int64) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
