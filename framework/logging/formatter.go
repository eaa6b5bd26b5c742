package logging

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TimestampLayout is the layout of the TIMESTAMP field.
const TimestampLayout = "2006-01-02 15:04:05"

// LineFormatter is a logrus.Formatter that produces "LEVEL - TIMESTAMP - SOURCE - MESSAGE" lines.
// Any fields attached to the entry are appended after the message as key=value pairs, sorted by key.
type LineFormatter struct {
	Source string
}

func (f LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s - %s - %s - %s",
		LevelName(entry.Level),
		entry.Time.Format(TimestampLayout),
		f.Source,
		strings.TrimRight(entry.Message, "\r\n"),
	)
	if len(entry.Data) != 0 {
		keys := maps.Keys(entry.Data)
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, entry.Data[k])
		}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// LevelName returns the upper-case name that is written for a level. Warnings are written as
// WARNING rather than logrus's own "warning"/"warn" spellings.
func LevelName(level logrus.Level) string {
	switch level {
	case logrus.WarnLevel:
		return "WARNING"
	case logrus.PanicLevel, logrus.FatalLevel:
		return "CRITICAL"
	default:
		return strings.ToUpper(level.String())
	}
}
