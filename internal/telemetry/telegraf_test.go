package telemetry

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

func sample() *proctree.Forest {
	return proctree.Build([]proctree.Record{
		{PID: 1, Footprint: 100, Label: "init"},
		{PID: 2, PPID: 1, Footprint: 50, Label: "my shell"},
		{PID: 9, Footprint: 10, Label: "kthreadd"},
	})
}

func TestLines(t *testing.T) {
	e := &TelegrafEmitter{measurement: "ncmu", hostname: "box", top: 1}
	got := e.lines(sample(), 1500*time.Microsecond, 42)

	want := []string{
		"ncmu,host=box,name=init,pid=1 self_bytes=100i,total_bytes=150i,children=1i 42",
		"ncmu_summary,host=box processes=3i,roots=2i,total_bytes=160i,diagnostics=0i,poll_us=1500i 42",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEscapeTag(t *testing.T) {
	tests := []struct{ in, want string }{
		{"my shell", `my\ shell`},
		{"a,b=c", `a\,b\=c`},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := escapeTag(tt.in); got != tt.want {
			t.Errorf("escapeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmitOverUDP(t *testing.T) {
	ln, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Skipf("udp unavailable: %v", err)
	}
	defer ln.Close()

	e, err := NewTelegrafEmitter(ln.LocalAddr().(*net.UDPAddr), "ncmu", 5)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Emit(sample(), time.Millisecond)

	ln.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, _, err := ln.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	payload := string(buf[:n])
	if !strings.Contains(payload, "ncmu_summary,") || !strings.Contains(payload, "name=kthreadd") {
		t.Errorf("payload = %q", payload)
	}
}

func TestNilEmitter(t *testing.T) {
	var e *TelegrafEmitter
	e.Emit(sample(), 0)
	e.Close()
}
