// Package logger writes structured JSON log lines to a daily file, with an
// optional colored console echo.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Session   string `json:"session"`
	Message   string `json:"message"`
}

// Logger writes one JSON line per entry to a daily log file and can echo a
// coloured copy to a console writer.
type Logger struct {
	mu      sync.Mutex
	file    io.WriteCloser
	out     io.Writer
	console io.Writer
	session string
	now     func() time.Time
}

type Options struct {
	Dir     string
	Console io.Writer
}

// New opens (or appends to) <dir>/gic-cbs-YYYY-MM-DD.log.
func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := filepath.Join(opts.Dir, fmt.Sprintf("gic-cbs-%s.log", time.Now().Format(time.DateOnly)))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{
		file:    file,
		out:     file,
		console: opts.Console,
		session: uuid.NewString(),
		now:     time.Now,
	}
	l.Info("LOGGER", fmt.Sprintf("Log file: %s", name))
	return l, nil
}

// NewWriter logs JSON lines to w. Mostly useful in tests.
func NewWriter(w io.Writer) *Logger {
	return &Logger{out: w, session: uuid.NewString(), now: time.Now}
}

// Nop discards everything.
func Nop() *Logger {
	return NewWriter(io.Discard)
}

func (l *Logger) Session() string {
	return l.session
}

func (l *Logger) log(level LogLevel, category, message string) {
	if l == nil {
		return
	}
	entry := LogEntry{
		Timestamp: l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     level.String(),
		Category:  category,
		Session:   l.session,
		Message:   message,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if payload, err := json.Marshal(entry); err == nil {
		_, _ = l.out.Write(append(payload, '\n'))
	}
	if l.console != nil {
		_, _ = io.WriteString(l.console, formatConsole(entry))
	}
}

func formatConsole(entry LogEntry) string {
	var levelColor *color.Color
	switch entry.Level {
	case "DEBUG":
		levelColor = color.New(color.FgCyan)
	case "WARN":
		levelColor = color.New(color.FgYellow)
	case "ERROR":
		levelColor = color.New(color.FgRed, color.Bold)
	default:
		levelColor = color.New(color.FgGreen)
	}
	timeStr := color.New(color.FgBlue).Sprint(entry.Timestamp[11:19])
	return fmt.Sprintf("%s %s %s %s\n",
		timeStr,
		levelColor.Sprintf("%-5s", entry.Level),
		color.New(color.Bold).Sprintf("[%-8s]", entry.Category),
		entry.Message,
	)
}

func (l *Logger) Debug(category, message string) { l.log(DEBUG, category, message) }
func (l *Logger) Info(category, message string)  { l.log(INFO, category, message) }
func (l *Logger) Warn(category, message string)  { l.log(WARN, category, message) }
func (l *Logger) Error(category, message string) { l.log(ERROR, category, message) }

func (l *Logger) LogBooking(action, bookingID, message string) {
	l.Info("BOOKING", fmt.Sprintf("[%s] %s - %s", action, bookingID, message))
}

func (l *Logger) LogStore(operation, target, message string) {
	l.Info("STORE", fmt.Sprintf("[%s] %s - %s", operation, target, message))
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.Info("LOGGER", "Closing log file")
	return l.file.Close()
}
