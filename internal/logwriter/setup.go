package logwriter

import (
	"io"
	"log/slog"
)

// Setup installs the default slog logger. With an empty path logs are
// discarded, since the dashboard owns the terminal. The returned closer
// must be closed on exit.
func Setup(path string, maxSize int64, maxFiles int, level slog.Level) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil), nil
	}
	w, err := New(path, maxSize, maxFiles)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return w, nil
}
