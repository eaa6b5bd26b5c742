package apitest

import (
	"fmt"
	"strings"
	"time"
)

// Results is everything that happened in a test run, in the order the scopes finished.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestID
}

type TestResult struct {
	TestID   TestID
	Errors   []error
	Duration time.Duration

	// TransportFailure is true if the test stopped because a request could not be completed.
	TransportFailure bool

	// Group is true if the scope ran subtests of its own, even if the filter excluded all of them.
	Group bool
}

// Summary is a count of test outcomes. Group scopes are not counted, only the tests inside them.
type Summary struct {
	Passed          int
	Failed          int
	Skipped         int
	TransportErrors int
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Summary counts the outcomes of the tests that were run.
func (r Results) Summary() Summary {
	s := Summary{Skipped: len(r.Skipped)}
	for _, t := range r.Tests {
		if len(t.TestID) == 0 || t.Group {
			continue
		}
		if len(t.Errors) == 0 {
			s.Passed++
			continue
		}
		s.Failed++
		if t.TransportFailure {
			s.TransportErrors++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Summary: %d passed, %d failed, %d skipped (%d transport errors)",
		s.Passed, s.Failed, s.Skipped, s.TransportErrors)
}

// TestID is the full name of a test: the names of its enclosing groups, then its own.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

// Plus returns a new TestID for a subtest; the receiver is not modified.
func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
