package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/backscroll/pkg/config"
)

// Level orders log lines by severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads a level name, case-insensitively. Unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

const timeLayout = "2006-01-02T15:04:05.000"

// Logger writes one line per record to a file. The TUI owns the terminal, so
// nothing is ever written to stdout or stderr.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	closer io.Closer
	now    func() time.Time
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Init opens the log file named by the loaded settings and installs it as the
// default logger. Calling it again is a no-op until Close.
func Init() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		return nil
	}

	settings := config.Get()
	l, err := Open(resolvePath(settings.Logging.LogFile), ParseLevel(settings.Logging.Level), settings.Logging.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defaultLogger = l
	return nil
}

// relative log paths live next to the settings file
func resolvePath(p string) string {
	if p == "" {
		p = "system.log"
	}
	if filepath.IsAbs(p) {
		return p
	}
	return config.BuildSettingsPath(filepath.Base(p))
}

// Open creates the log file and its directory. With preserve set, earlier
// sessions are kept and new lines are appended.
func Open(path string, level Level, preserve bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if preserve {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewWriter(f, level), nil
}

// NewWriter logs to w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer, level Level) *Logger {
	l := &Logger{level: level, out: w, now: time.Now}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Enabled reports whether records at level are written
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) write(level Level, component, msg string, keyvals []any) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder
	b.WriteString(l.now().Format(timeLayout))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	appendKeyvals(&b, keyvals)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

func appendKeyvals(b *strings.Builder, keyvals []any) {
	for i := 0; i < len(keyvals); i += 2 {
		b.WriteByte(' ')
		if i+1 == len(keyvals) {
			fmt.Fprintf(b, "%v=<missing>", keyvals[i])
			break
		}
		v := fmt.Sprint(keyvals[i+1])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(b, "%v=%s", keyvals[i], v)
	}
}

// SetOutput redirects the default logger
func SetOutput(w io.Writer) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.out = w
	defaultLogger.mu.Unlock()
}

// SetLevel changes the minimum level of the default logger
func SetLevel(level string) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.level = ParseLevel(level)
	defaultLogger.mu.Unlock()
}

// Close flushes and detaches the default logger
func Close() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		return nil
	}
	err := defaultLogger.Close()
	defaultLogger = nil
	return err
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// ComponentLogger tags records with the subsystem that wrote them. Trailing
// arguments are key/value pairs.
type ComponentLogger struct {
	component string
}

// WithComponent returns a logger for one subsystem. It resolves the default
// logger on every call, so loggers created at package init start writing once
// Init has run.
func WithComponent(component string) *ComponentLogger {
	return &ComponentLogger{component: component}
}

func (c *ComponentLogger) Debug(msg string, keyvals ...any) { c.log(LevelDebug, msg, keyvals) }
func (c *ComponentLogger) Info(msg string, keyvals ...any)  { c.log(LevelInfo, msg, keyvals) }
func (c *ComponentLogger) Warn(msg string, keyvals ...any)  { c.log(LevelWarn, msg, keyvals) }
func (c *ComponentLogger) Error(msg string, keyvals ...any) { c.log(LevelError, msg, keyvals) }

func (c *ComponentLogger) log(level Level, msg string, keyvals []any) {
	if l := current(); l != nil {
		l.write(level, c.component, msg, keyvals)
	}
}
