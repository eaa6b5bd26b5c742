package apitest

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/restcontract/api-contract-tests/framework"
)

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter decides which tests run. If nil, all of them do.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is made available to every test through T.Context.
	Context interface{}
}

type runState struct {
	config  TestConfiguration
	results Results
}

// T is the scope of a single test, or of a group of tests. Like Go's testing.T, it can be
// passed to assertion helpers from testify and go-test-helpers/matchers.
type T struct {
	state       *runState
	id          TestID
	output      framework.CapturingLogger
	errors      []error
	failed      bool
	transport   bool
	hasSubtests bool
	helperFns   []string
}

// exitScope is the panic value used by FailNow to unwind to the enclosing scope.
type exitScope struct{}

// Run starts the top-level scope. Tests run sequentially in the order that T.Run is called.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	state := &runState{config: config}
	root := &T{state: state}
	root.execute(action)
	return state.results
}

func (t *T) execute(action func(*T)) TestResult {
	started := time.Now()
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(exitScope); ok {
				if len(t.errors) == 0 {
					t.fail(errors.New("test failed with no failure message"))
				}
				return
			}
			t.fail(fmt.Errorf("unexpected panic in test: %+v\n%s", r, debug.Stack()))
		}()
		action(t)
	}()

	result := TestResult{
		TestID:           t.id,
		Errors:           t.errors,
		Duration:         time.Since(started),
		TransportFailure: t.transport,
		Group:            t.hasSubtests,
	}
	if t.failed {
		t.state.results.Failures = append(t.state.results.Failures, result)
	}
	t.state.results.Tests = append(t.state.results.Tests, result)
	return result
}

func (t *T) fail(err error) {
	t.failed = true
	t.errors = append(t.errors, err)
	t.state.config.TestLogger.TestError(t.id, err)
}

// ID returns the full name of the current test.
func (t *T) ID() TestID {
	return t.id
}

// Run runs a subtest in its own scope. If the subtest fails, only the subtest stops; the
// caller carries on. A subtest excluded by the filter is reported as skipped.
func (t *T) Run(name string, action func(*T)) {
	t.hasSubtests = true
	id := t.id.Plus(name)
	logger := t.state.config.TestLogger

	if filter := t.state.config.Filter; filter != nil && !filter.Match(id) {
		t.state.results.Skipped = append(t.state.results.Skipped, id)
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	}

	logger.TestStarted(id)
	sub := &T{state: t.state, id: id}
	result := sub.execute(action)
	logger.TestFinished(id, result, sub.output.Output())
}

// Errorf marks the test as failed without stopping it. The message is annotated with the
// location in the test code that reported it.
func (t *T) Errorf(format string, args ...interface{}) {
	t.fail(withStacktrace(fmt.Errorf(format, args...), callerFrames(t.helperFns)))
}

// FailNow stops the test immediately and marks it as failed.
func (t *T) FailNow() {
	panic(exitScope{})
}

// TransportFailure stops the test because an HTTP request could not be completed at all. Such
// tests are counted apart from tests whose responses broke their contract.
func (t *T) TransportFailure(err error) {
	t.transport = true
	t.fail(fmt.Errorf("transport error: %w", err))
	t.FailNow()
}

// Failed returns true if the test has reported any failure so far.
func (t *T) Failed() bool {
	return t.failed
}

// Debug writes a message to the captured output of this test.
func (t *T) Debug(message string, args ...interface{}) {
	t.output.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the captured output of this test. The output is
// passed to TestLogger.TestFinished, which decides whether to show it.
func (t *T) DebugLogger() framework.Logger {
	return &t.output
}

// Context returns the value of TestConfiguration.Context.
func (t *T) Context() interface{} {
	return t.state.config.Context
}

// Helper marks the calling function as a test helper, so it is left out of failure locations.
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	if f := runtime.FuncForPC(pc); f != nil {
		t.helperFns = append(t.helperFns, f.Name())
	}
}
