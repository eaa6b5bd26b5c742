package apitests

import (
	"github.com/sirupsen/logrus"

	"github.com/restcontract/api-contract-tests/framework"
	"github.com/restcontract/api-contract-tests/framework/apitest"
	"github.com/restcontract/api-contract-tests/framework/harness"
)

// APITestContext is the read-only state shared by every test in a run.
type APITestContext struct {
	harness *harness.TestHarness
}

func requireContext(t *apitest.T) APITestContext {
	if c, ok := t.Context().(APITestContext); ok {
		return c
	}
	panic("APITestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// logger returns the console logger for progress messages.
func (c APITestContext) logger() *logrus.Entry {
	return c.harness.Logger()
}

// requestLogger returns a logger that writes both to the console and to the test's own output.
func (c APITestContext) requestLogger(t *apitest.T) framework.Logger {
	return c.harness.TestLogger(t.DebugLogger())
}

// send performs the request, terminating the test if it could not be completed.
func send(t *apitest.T, req harness.Request) harness.Response {
	t.Helper()
	c := requireContext(t)
	return harness.RequireResponse(t, c.harness, req, c.requestLogger(t))
}
