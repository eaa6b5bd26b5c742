package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func messages(output CapturedOutput) []string {
	ret := make([]string, 0, len(output))
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

func TestCapturingLogger(t *testing.T) {
	var l CapturingLogger
	l.Printf("a %d", 1)
	l.Println("b", 2)
	assert.Equal(t, []string{"a 1", "b 2"}, messages(l.Output()))
}

func TestCapturingLoggerOutputIsACopy(t *testing.T) {
	var l CapturingLogger
	l.Printf("first")
	out := l.Output()
	l.Printf("second")
	assert.Equal(t, []string{"first"}, messages(out))
	assert.Equal(t, []string{"first", "second"}, messages(l.Output()))
}

func TestNullLoggerDiscards(t *testing.T) {
	NullLogger().Printf("x %d", 1)
	NullLogger().Println("y")
}

func TestCapturedOutputToString(t *testing.T) {
	t0 := time.Date(2026, 10, 18, 14, 3, 11, 5000000, time.UTC)
	output := CapturedOutput{
		{Time: t0, Message: "first"},
		{Time: t0, Message: "second"},
	}
	assert.Equal(t,
		"  DEBUG [2026-10-18 14:03:11.005] first\n  DEBUG [2026-10-18 14:03:11.005] second",
		output.ToString("  DEBUG "))
	assert.Equal(t, "", CapturedOutput(nil).ToString("x"))
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	p := LoggerWithPrefix(&l, "[mock] ")
	p.Printf("hello %s", "there")
	p.Println("bye")
	assert.Equal(t, []string{"[mock] hello there", "[mock]  bye"}, messages(l.Output()))
}
