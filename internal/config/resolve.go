package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncmu-dev/ncmu/internal/source"
	"github.com/ncmu-dev/ncmu/internal/units"
)

const (
	DefaultInterval    = 2 * time.Second
	MinInterval        = 100 * time.Millisecond
	DefaultLogMaxSize  = units.MB
	DefaultLogMaxFiles = 3
	DefaultTelegrafTop = 10
)

// Resolved holds the fully resolved, validated runtime configuration.
type Resolved struct {
	Interval  time.Duration
	MinChange int64

	Metric source.Metric

	LogFile     string // empty = logging off
	LogLevel    slog.Level
	LogMaxSize  int64
	LogMaxFiles int

	TelegrafEnabled bool
	TelegrafAddr    *net.UDPAddr
	TelegrafMeas    string
	TelegrafTop     int
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Resolved {
	return &Resolved{
		Interval:    DefaultInterval,
		MinChange:   1,
		Metric:      source.MetricRSS,
		LogLevel:    slog.LevelInfo,
		LogMaxSize:  DefaultLogMaxSize,
		LogMaxFiles: DefaultLogMaxFiles,
	}
}

// Resolve takes a raw Config (may be nil) and returns the validated runtime config.
func Resolve(cfg *Config, home string) (*Resolved, []string, error) {
	r := Defaults()
	var warnings []string
	if cfg == nil {
		cfg = &Config{}
	}

	// --- Refresh (cannot be disabled, null = defaults + warning) ---
	if isJSONNull(cfg.Refresh) {
		warnings = append(warnings, "refresh: null treated as defaults (polling cannot be disabled)")
	} else if cfg.Refresh != nil {
		var rc RefreshConfig
		if err := json.Unmarshal(cfg.Refresh, &rc); err != nil {
			return nil, nil, fmt.Errorf("refresh: %w", err)
		}
		if rc.Interval != "" {
			d, err := time.ParseDuration(rc.Interval)
			if err != nil {
				return nil, nil, fmt.Errorf("refresh.interval %q - expected a duration like \"2s\", \"500ms\"", rc.Interval)
			}
			if d < MinInterval {
				return nil, nil, fmt.Errorf("refresh.interval must be >= %s (got: %s)", MinInterval, d)
			}
			r.Interval = d
		}
		if rc.MinChange != "" {
			n, err := units.ParseSize(rc.MinChange)
			if err != nil {
				return nil, nil, fmt.Errorf("refresh.min_change %q - expected format like \"4K\", \"1M\"", rc.MinChange)
			}
			r.MinChange = max(n, 1)
		}
	}

	// --- Memory (cannot be disabled) ---
	if isJSONNull(cfg.Memory) {
		warnings = append(warnings, "memory: null treated as defaults (metric rss)")
	} else if cfg.Memory != nil {
		var mc MemoryConfig
		if err := json.Unmarshal(cfg.Memory, &mc); err != nil {
			return nil, nil, fmt.Errorf("memory: %w", err)
		}
		m, err := source.ParseMetric(mc.Metric)
		if err != nil {
			return nil, nil, fmt.Errorf("memory.metric: %w", err)
		}
		r.Metric = m
	}

	// --- Logs (absent/null = off) ---
	if cfg.Logs != nil && !isJSONNull(cfg.Logs) {
		logs := LogsConfig{Level: "info", MaxSize: "1M", MaxFiles: DefaultLogMaxFiles}
		if err := json.Unmarshal(cfg.Logs, &logs); err != nil {
			return nil, nil, fmt.Errorf("logs: %w", err)
		}
		if logs.File == "" {
			logs.File = filepath.Join(home, "ncmu.log")
		}
		// Resolve ~ in file
		if strings.HasPrefix(logs.File, "~/") {
			if h, _ := os.UserHomeDir(); h != "" {
				logs.File = filepath.Join(h, logs.File[2:])
			}
		}
		if err := r.LogLevel.UnmarshalText([]byte(logs.Level)); err != nil {
			return nil, nil, fmt.Errorf("logs.level %q - expected debug, info, warn or error", logs.Level)
		}
		maxSize, err := units.ParseSize(logs.MaxSize)
		if err != nil || maxSize == 0 {
			return nil, nil, fmt.Errorf("logs.max_size %q - expected format like \"1M\", \"500K\", \"10M\"", logs.MaxSize)
		}
		if logs.MaxFiles < 0 {
			return nil, nil, fmt.Errorf("logs.max_files must be >= 0 (got: %d)", logs.MaxFiles)
		}
		r.LogFile = logs.File
		r.LogMaxSize = maxSize
		r.LogMaxFiles = logs.MaxFiles
	}

	// --- Telemetry (absent/null = disabled) ---
	if cfg.Telemetry != nil && !isJSONNull(cfg.Telemetry) {
		var tel TelemetryConfig
		if err := json.Unmarshal(cfg.Telemetry, &tel); err != nil {
			return nil, nil, fmt.Errorf("telemetry: %w", err)
		}
		if tel.Telegraf != nil {
			if tel.Telegraf.UDP == "" {
				return nil, nil, fmt.Errorf("telemetry.telegraf.udp is required when telegraf is enabled")
			}
			addr, err := net.ResolveUDPAddr("udp", tel.Telegraf.UDP)
			if err != nil {
				return nil, nil, fmt.Errorf("telemetry.telegraf.udp %q - expected \"host:port\"", tel.Telegraf.UDP)
			}
			if addr.IP != nil && !addr.IP.IsLoopback() {
				warnings = append(warnings, fmt.Sprintf("telemetry.telegraf.udp %s is not a loopback address", addr))
			}
			meas := tel.Telegraf.Measurement
			if meas == "" {
				meas = "ncmu"
			}
			top := DefaultTelegrafTop
			if tel.Telegraf.Top != nil {
				if *tel.Telegraf.Top < 0 {
					return nil, nil, fmt.Errorf("telemetry.telegraf.top must be >= 0 (got: %d)", *tel.Telegraf.Top)
				}
				top = *tel.Telegraf.Top
			}
			r.TelegrafEnabled = true
			r.TelegrafAddr = addr
			r.TelegrafMeas = meas
			r.TelegrafTop = top
		}
	}

	return r, warnings, nil
}
