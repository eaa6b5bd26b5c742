package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/restcontract/api-contract-tests/framework"
)

// APILoggerName is the name of the logger that the API test cases write to.
const APILoggerName = "api_tests"

type registry struct {
	loggers map[string]*logrus.Entry
	level   logrus.Level
	output  io.Writer
	lock    sync.Mutex
}

var defaultRegistry = &registry{ //nolint:gochecknoglobals
	loggers: make(map[string]*logrus.Entry),
	level:   logrus.InfoLevel,
	output:  os.Stdout,
}

// Get returns the logger with the given name, creating it the first time it is requested. Repeated
// calls with the same name return the same logger for the lifetime of the process.
func Get(name string) *logrus.Entry {
	defaultRegistry.lock.Lock()
	defer defaultRegistry.lock.Unlock()
	if e, ok := defaultRegistry.loggers[name]; ok {
		return e
	}
	l := logrus.New()
	l.SetFormatter(LineFormatter{Source: name})
	l.SetLevel(defaultRegistry.level)
	l.SetOutput(defaultRegistry.output)
	e := logrus.NewEntry(l)
	defaultRegistry.loggers[name] = e
	return e
}

// SetLevel changes the minimum level of every logger, including ones created later.
func SetLevel(level logrus.Level) {
	defaultRegistry.lock.Lock()
	defer defaultRegistry.lock.Unlock()
	defaultRegistry.level = level
	for _, e := range defaultRegistry.loggers {
		e.Logger.SetLevel(level)
	}
}

// SetOutput changes the destination of every logger, including ones created later. The default
// is os.Stdout.
func SetOutput(w io.Writer) {
	defaultRegistry.lock.Lock()
	defer defaultRegistry.lock.Unlock()
	defaultRegistry.output = w
	for _, e := range defaultRegistry.loggers {
		e.Logger.SetOutput(w)
	}
}

// ParseLevel accepts the level names that are written to the console (including WARNING and
// CRITICAL) as well as any name that logrus itself understands.
func ParseLevel(s string) (logrus.Level, error) {
	switch s {
	case "WARNING", "warning":
		return logrus.WarnLevel, nil
	case "CRITICAL", "critical":
		return logrus.FatalLevel, nil
	}
	return logrus.ParseLevel(s)
}

type debugBridge struct {
	entry *logrus.Entry
	debug framework.Logger
}

// DebugBridge returns a framework.Logger that writes each message both to the console logger, at
// INFO level, and to the given debug logger. Either may be nil.
func DebugBridge(entry *logrus.Entry, debugLogger framework.Logger) framework.Logger {
	return debugBridge{entry: entry, debug: debugLogger}
}

func (b debugBridge) Println(args ...interface{}) {
	if b.entry != nil {
		b.entry.Infoln(args...)
	}
	if b.debug != nil {
		b.debug.Println(args...)
	}
}

func (b debugBridge) Printf(message string, args ...interface{}) {
	if b.entry != nil {
		b.entry.Infof(message, args...)
	}
	if b.debug != nil {
		b.debug.Printf(message, args...)
	}
}
