package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restcontract/api-contract-tests/apitests"
	"github.com/restcontract/api-contract-tests/framework/logging"
)

func runForTest(t *testing.T, params commandParams, fs afero.Fs) (int, string, string) {
	var out, errOut bytes.Buffer
	t.Cleanup(func() { logging.SetOutput(os.Stdout) })
	if params.program == "" {
		params.program = "api-contract-tests"
	}
	if params.timeout == 0 {
		params.timeout = 5 * time.Second
	}
	if params.logLevel == "" {
		params.logLevel = "INFO"
	}
	exitCode := run(params, fs, &out, &errOut)
	return exitCode, out.String(), errOut.String()
}

func TestListPrintsTestIDs(t *testing.T) {
	exitCode, out, _ := runForTest(t, commandParams{list: true}, afero.NewMemMapFs())
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, strings.Join(apitests.AllCaseNames(), "\n")+"\n", out)
}

func TestRunAgainstMockAPIPasses(t *testing.T) {
	fs := afero.NewMemMapFs()
	exitCode, out, errOut := runForTest(t, commandParams{
		mock:           true,
		jUnitFile:      "reports/junit.xml",
		recordFailures: "failures.txt",
	}, fs)

	assert.Equal(t, 0, exitCode, errOut)
	assert.Contains(t, out, "Running API contract tests against http://127.0.0.1:")
	assert.Contains(t, out, "Summary: 8 passed, 0 failed, 0 skipped (0 transport errors)")
	assert.Contains(t, out, "Test run finished with exit code 0")
	assert.NotContains(t, out, "To run only the failed tests")

	report, err := afero.ReadFile(fs, "reports/junit.xml")
	require.NoError(t, err)
	assert.Contains(t, string(report), `name="tests.target.url"`)

	failures, err := afero.ReadFile(fs, "failures.txt")
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestRunAgainstFailingAPIReturnsNonZeroExitCode(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(500, http.Header{"Content-Type": {"application/json"}}, []byte(`{}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		fs := afero.NewMemMapFs()
		exitCode, out, _ := runForTest(t, commandParams{
			targetURL:      server.URL,
			recordFailures: "failures.txt",
		}, fs)

		assert.Equal(t, 1, exitCode)
		assert.Contains(t, out, "Summary: 0 passed, 8 failed, 0 skipped (0 transport errors)")
		assert.Contains(t, out, "To run only the failed tests:")
		assert.Contains(t, out, "  api-contract-tests -url "+server.URL+" -timeout 5s -run ")
		assert.Contains(t, out, "Test run finished with exit code 1")

		failures, err := afero.ReadFile(fs, "failures.txt")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(failures)), "\n")
		assert.Equal(t, apitests.AllCaseNames(), lines)
	})
}

func TestSkipFileSuppressesTests(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "skip.txt", []byte("posts/full update with PUT\n\nposts/delete\n"), 0644))

	exitCode, out, errOut := runForTest(t, commandParams{mock: true, skipFile: "skip.txt"}, fs)
	assert.Equal(t, 0, exitCode, errOut)
	assert.Contains(t, out, "Summary: 6 passed, 0 failed, 2 skipped (0 transport errors)")
}

func TestSetupErrorReturnsNonZeroExitCode(t *testing.T) {
	exitCode, out, errOut := runForTest(t, commandParams{mock: true, skipFile: "missing.txt"}, afero.NewMemMapFs())
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "cannot open provided suppression file")
	assert.Contains(t, out, "Test run finished with exit code 1")
}
