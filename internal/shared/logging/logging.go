package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *slog.Logger
	closer io.Closer
)

type Options struct {
	Path       string
	Level      string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (o *Options) applyDefaults() {
	if o.Path == "" {
		o.Path = "./logs/roster.log"
	}
	if o.Level == "" {
		o.Level = "info"
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 25
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = 5
	}
	if o.MaxAgeDays == 0 {
		o.MaxAgeDays = 30
	}
}

// Init installs the process logger: JSON to a rotating file, plus text on
// stdout when Console is set. Later calls are no-ops.
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return
	}
	opt.applyDefaults()
	logger, closer = build(opt, os.Stdout)
	logger.Info("logger initialized",
		"path", opt.Path,
		"level", opt.Level,
		"console", opt.Console,
	)
}

func build(opt Options, console io.Writer) (*slog.Logger, io.Closer) {
	opt.applyDefaults()
	_ = os.MkdirAll(filepath.Dir(opt.Path), 0o755)

	lvl := parseLevel(opt.Level)
	fileWriter := &lumberjack.Logger{
		Filename:   opt.Path,
		MaxSize:    opt.MaxSizeMB,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAgeDays,
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: lvl}),
	}
	if opt.Console {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(fanout{hs: handlers}), fileWriter
}

func L() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		Init(Options{Console: true})
		mu.Lock()
		l = logger
		mu.Unlock()
	}
	return l
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type fanout struct{ hs []slog.Handler }

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.hs {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := make([]slog.Handler, 0, len(f.hs))
	for _, h := range f.hs {
		nh = append(nh, h.WithAttrs(attrs))
	}
	return fanout{hs: nh}
}

func (f fanout) WithGroup(name string) slog.Handler {
	nh := make([]slog.Handler, 0, len(f.hs))
	for _, h := range f.hs {
		nh = append(nh, h.WithGroup(name))
	}
	return fanout{hs: nh}
}
