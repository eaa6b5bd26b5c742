package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// TestContext is a minimal interface for types like *testing.T and *apitest.T representing a
// test that can fail. Functions can use this to avoid specific dependencies on those packages.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
}

// TransportFailureReporter is implemented by test scopes that count requests which could not be
// completed separately from failed assertions. TransportFailure stops the test.
type TransportFailureReporter interface {
	TransportFailure(err error)
}

// TestRecorder is a stub implementation of TestContext for testing test helpers. It records
// error messages instead of reporting them anywhere.
type TestRecorder struct {
	Errors     []string
	Terminated bool

	// PanicOnTerminate makes FailNow panic after recording the termination, so that the calling
	// code really stops the way it would in a real test scope. Recover with RunRecorded.
	PanicOnTerminate bool
}

type testRecorderTerminated struct{}

func (t *TestRecorder) Errorf(msgFormat string, msgArgs ...interface{}) {
	t.Errors = append(t.Errors, fmt.Sprintf(msgFormat, msgArgs...))
}

func (t *TestRecorder) FailNow() {
	t.Terminated = true
	if t.PanicOnTerminate {
		panic(testRecorderTerminated{})
	}
}

// Err returns all recorded errors as a single error, or nil if there were none.
func (t *TestRecorder) Err() error {
	if len(t.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(t.Errors, ", "))
}

// RunRecorded calls action with a TestRecorder whose FailNow stops the action, and returns the
// recorder afterward.
func RunRecorded(action func(t *TestRecorder)) *TestRecorder {
	t := &TestRecorder{PanicOnTerminate: true}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(testRecorderTerminated); !ok {
					panic(r)
				}
			}
		}()
		action(t)
	}()
	return t
}
