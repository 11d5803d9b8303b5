package source

import (
	"fmt"
	"strings"
)

// Metric selects which memory figure becomes a process footprint.
type Metric int

const (
	MetricRSS Metric = iota
	MetricSwap
	MetricRSSSwap
)

func (m Metric) String() string {
	switch m {
	case MetricSwap:
		return "swap"
	case MetricRSSSwap:
		return "rss+swap"
	default:
		return "rss"
	}
}

// ParseMetric accepts "rss", "swap" and "rss+swap". The empty string means
// rss.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rss":
		return MetricRSS, nil
	case "swap":
		return MetricSwap, nil
	case "rss+swap", "rss,swap":
		return MetricRSSSwap, nil
	}
	return MetricRSS, fmt.Errorf("unknown memory metric %q (want rss, swap or rss+swap)", s)
}

func (m Metric) pick(rss, swap uint64) int64 {
	switch m {
	case MetricSwap:
		return int64(swap)
	case MetricRSSSwap:
		return int64(rss + swap)
	default:
		return int64(rss)
	}
}
