package telemetry

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// TelegrafEmitter sends forest summaries to Telegraf via UDP in InfluxDB line protocol.
type TelegrafEmitter struct {
	conn        *net.UDPConn
	measurement string
	hostname    string
	top         int
}

// NewTelegrafEmitter creates a new emitter. addr is the resolved UDP address;
// top is how many root subtrees get their own line.
func NewTelegrafEmitter(addr *net.UDPAddr, measurement string, top int) (*TelegrafEmitter, error) {
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("telegraf dial: %w", err)
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	return &TelegrafEmitter{
		conn:        conn,
		measurement: measurement,
		hostname:    hostname,
		top:         top,
	}, nil
}

// Emit sends one summary line plus a line for each of the largest roots.
func (e *TelegrafEmitter) Emit(f *proctree.Forest, poll time.Duration) {
	if e == nil || e.conn == nil || f == nil {
		return
	}
	payload := strings.Join(e.lines(f, poll, time.Now().UnixNano()), "\n") + "\n"
	e.conn.Write([]byte(payload)) // fire-and-forget
}

func (e *TelegrafEmitter) lines(f *proctree.Forest, poll time.Duration, now int64) []string {
	var lines []string

	for i, r := range f.Roots {
		if i >= e.top {
			break
		}
		lines = append(lines, fmt.Sprintf(
			"%s,host=%s,name=%s,pid=%d self_bytes=%di,total_bytes=%di,children=%di %d",
			e.measurement,
			escapeTag(e.hostname),
			escapeTag(r.Label),
			r.PID,
			r.Self, r.Total, len(r.Children),
			now,
		))
	}

	lines = append(lines, fmt.Sprintf(
		"%s_summary,host=%s processes=%di,roots=%di,total_bytes=%di,diagnostics=%di,poll_us=%di %d",
		e.measurement,
		escapeTag(e.hostname),
		f.Len(), len(f.Roots), f.TotalFootprint(), len(f.Diagnostics),
		poll.Microseconds(),
		now,
	))
	return lines
}

// Close closes the UDP connection.
func (e *TelegrafEmitter) Close() {
	if e != nil && e.conn != nil {
		e.conn.Close()
	}
}

// escapeTag escapes special characters in InfluxDB line protocol tag values.
func escapeTag(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ReplaceAll(s, " ", "\\ ")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "=", "\\=")
	return s
}
