package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestEnv sets up an isolated ncmu environment per test.
// Each test gets its own NCMU_HOME so tests can run in parallel.
type TestEnv struct {
	T       *testing.T
	Home    string
	NcmuBin string
}

// NewTestEnv creates an isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	home := t.TempDir()

	ncmuBin := filepath.Join(BinDir(), "ncmu")
	requireFile(t, ncmuBin, "run: go build -o test/bin/ncmu ./cmd/ncmu/")

	return &TestEnv{
		T:       t,
		Home:    home,
		NcmuBin: ncmuBin,
	}
}

// BinDir returns the path to the test binary directory.
func BinDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "bin")
}

// Ncmu runs an ncmu CLI command and returns stdout, stderr, exit code.
func (e *TestEnv) Ncmu(args ...string) (stdout, stderr string, exitCode int) {
	cmd := exec.Command(e.NcmuBin, args...)
	cmd.Env = append(os.Environ(), "NCMU_HOME="+e.Home)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		exitCode = -1
	}
	return outBuf.String(), errBuf.String(), exitCode
}

// MustNcmu runs ncmu and fails the test if exit code != 0.
func (e *TestEnv) MustNcmu(args ...string) string {
	e.T.Helper()
	stdout, stderr, code := e.Ncmu(args...)
	if code != 0 {
		e.T.Fatalf("ncmu %v failed (exit %d):\nstdout: %s\nstderr: %s",
			args, code, stdout, stderr)
	}
	return stdout
}

// WriteFile writes content under the test home and returns its path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.T.Helper()
	path := filepath.Join(e.Home, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("write %s: %v", name, err)
	}
	return path
}

// WriteReplay marshals snapshots into a replay file and returns its path.
func (e *TestEnv) WriteReplay(snapshots interface{}) string {
	e.T.Helper()
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		e.T.Fatalf("marshal replay: %v", err)
	}
	return e.WriteFile("replay.json", string(data))
}

// TreeJSON runs `ncmu tree --json` with extra args and decodes the result.
func (e *TestEnv) TreeJSON(args ...string) map[string]interface{} {
	e.T.Helper()
	out := e.MustNcmu(append([]string{"tree", "--json"}, args...)...)
	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		e.T.Fatalf("parse tree output: %v\n%s", err, out)
	}
	return tree
}

func requireFile(t *testing.T, path, hint string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("required file not found: %s\nHint: %s", path, hint)
	}
}
