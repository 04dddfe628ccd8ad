package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "INFO"
	}
}

// ParseLevel maps a config string onto a Level. Unknown values mean INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// Logger writes coloured lines to the terminal and, when a log directory is
// configured, JSON lines to a dated file.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	file     *os.File
	min      Level
	exitFunc func(int)
}

type Options struct {
	Service string
	Dir     string
	Level   Level
	Output  io.Writer
}

func New(opts Options) (*Logger, error) {
	l := &Logger{out: opts.Output, min: opts.Level, exitFunc: os.Exit}
	if l.out == nil {
		l.out = color.Output
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		service := opts.Service
		if service == "" {
			service = "venuebook"
		}
		name := filepath.Join(opts.Dir, fmt.Sprintf("%s-%s.log", service, time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		l.Info("LOGGER", "log file: "+name)
	}

	return l, nil
}

// Nop discards everything. Handy for tests.
func Nop() *Logger {
	return &Logger{out: io.Discard, min: FATAL + 1, exitFunc: os.Exit}
}

func (l *Logger) log(level Level, category, message string) {
	if level < l.min {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     level.String(),
		Category:  strings.ToUpper(category),
		Message:   message,
		File:      file,
		Line:      line,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.out, formatTerminal(entry))
	if l.file != nil {
		raw, _ := json.Marshal(entry)
		l.file.Write(append(raw, '\n'))
	}
}

func formatTerminal(e Entry) string {
	var levelColor, categoryColor *color.Color
	switch e.Level {
	case "DEBUG":
		levelColor = color.New(color.FgCyan)
		categoryColor = color.New(color.FgCyan, color.Bold)
	case "INFO":
		levelColor = color.New(color.FgGreen)
		categoryColor = color.New(color.FgGreen, color.Bold)
	case "WARN":
		levelColor = color.New(color.FgYellow)
		categoryColor = color.New(color.FgYellow, color.Bold)
	default:
		levelColor = color.New(color.FgRed)
		categoryColor = color.New(color.FgRed, color.Bold)
	}

	ts := color.New(color.FgBlue).Sprint(e.Timestamp[11:19])
	lvl := levelColor.Sprintf("%-5s", e.Level)
	cat := categoryColor.Sprintf("[%-10s]", e.Category)

	if e.File != "" && e.Line > 0 {
		where := color.New(color.FgMagenta).Sprintf(" (%s:%d)", e.File, e.Line)
		return fmt.Sprintf("%s %s %s %s%s\n", ts, lvl, cat, e.Message, where)
	}
	return fmt.Sprintf("%s %s %s %s\n", ts, lvl, cat, e.Message)
}

func (l *Logger) Debug(category, message string) { l.log(DEBUG, category, message) }
func (l *Logger) Info(category, message string)  { l.log(INFO, category, message) }
func (l *Logger) Warn(category, message string)  { l.log(WARN, category, message) }
func (l *Logger) Error(category, message string) { l.log(ERROR, category, message) }

func (l *Logger) Fatal(category, message string) {
	l.log(FATAL, category, message)
	l.Close()
	l.exitFunc(1)
}

func (l *Logger) LogOrder(action string, orderID int64, message string) {
	l.log(INFO, "ORDER", fmt.Sprintf("[%s] #%d - %s", action, orderID, message))
}

func (l *Logger) LogAPI(method, path string, status int, duration time.Duration) {
	level := INFO
	if status >= 500 {
		level = ERROR
	} else if status >= 400 {
		level = WARN
	}
	l.log(level, "API", fmt.Sprintf("%s %s - %d (%s)", method, path, status, duration))
}

func (l *Logger) LogDatabase(operation, table, message string) {
	l.log(INFO, "DATABASE", fmt.Sprintf("[%s] %s - %s", operation, table, message))
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
