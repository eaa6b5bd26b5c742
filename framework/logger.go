package framework

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal logging interface shared by *log.Logger, ldlog loggers, and the loggers
// in this package.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type discardLogger struct{}

func (discardLogger) Println(...interface{})         {}
func (discardLogger) Printf(string, ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return discardLogger{} }

// CapturedMessage is one line of captured output.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// ToString formats the output one message per line, each starting with prefix and a timestamp.
func (output CapturedOutput) ToString(prefix string) string {
	var b strings.Builder
	for i, m := range output {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s[%s] %s", prefix, m.Time.Format("2006-01-02 15:04:05.000"), m.Message)
	}
	return b.String()
}

// CapturingLogger keeps everything written to it, so that the output of a test can be shown
// afterward if it is wanted. It is safe for concurrent use.
type CapturingLogger struct {
	messages CapturedOutput
	lock     sync.Mutex
}

func (l *CapturingLogger) Println(args ...interface{}) {
	l.add(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.add(fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) add(message string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.messages = append(l.messages, CapturedMessage{Time: time.Now(), Message: message})
}

// Output returns a copy of everything captured so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append(CapturedOutput(nil), l.messages...)
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

// LoggerWithPrefix returns a Logger that adds prefix to the start of each message.
func LoggerWithPrefix(baseLogger Logger, prefix string) Logger {
	return prefixedLogger{base: baseLogger, prefix: prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}
