package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/restcontract/api-contract-tests/apitests"
	"github.com/restcontract/api-contract-tests/framework"
	"github.com/restcontract/api-contract-tests/framework/apitest"
	"github.com/restcontract/api-contract-tests/framework/harness"
	"github.com/restcontract/api-contract-tests/framework/logging"
	"github.com/restcontract/api-contract-tests/mockapi"
)

const jUnitSuiteName = "api-contract-tests"

func main() {
	fs := afero.NewOsFs()

	var params commandParams
	if !params.Read(os.Args, fs, os.Stderr) {
		os.Exit(1)
	}

	os.Exit(run(params, fs, os.Stdout, os.Stderr))
}

// run executes the test run described by params and returns the process exit code.
func run(params commandParams, fs afero.Fs, out, errOut io.Writer) int {
	if params.list {
		for _, name := range apitests.AllCaseNames() {
			fmt.Fprintln(out, name)
		}
		return 0
	}

	exitCode := 1
	results, err := runTests(params, fs, out)
	switch {
	case err != nil:
		fmt.Fprintf(errOut, "Error: %v\n", err)
	case results.OK():
		exitCode = 0
	default:
		failed := make([]apitest.TestID, 0, len(results.Failures))
		for _, f := range results.Failures {
			failed = append(failed, f.TestID)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(failed))
	}

	fmt.Fprintf(out, "Test run finished with exit code %d\n", exitCode)
	return exitCode
}

func runTests(params commandParams, fs afero.Fs, out io.Writer) (*apitest.Results, error) {
	level, err := logging.ParseLevel(params.logLevel)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)
	logging.SetOutput(out)

	if params.skipFile != "" {
		if err := loadSuppressions(fs, &params); err != nil {
			return nil, err
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}

	targetURL := params.targetURL
	if params.mock {
		mockLogger := framework.LoggerWithPrefix(mainDebugLogger, "[mock API] ")
		target, err := harness.StartLocalTarget(mockapi.NewService(mockLogger), mockLogger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = target.Close() }()
		targetURL = target.URL()
	}

	h, err := harness.NewTestHarness(
		targetURL,
		harness.WithTimeout(params.timeout),
		harness.WithLogger(logging.Get(logging.APILoggerName)),
	)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Running API contract tests against %s\n", h.BaseURL())

	var testLogger apitest.TestLogger
	consoleLogger := apitest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
		Output:               out,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		info := h.TargetInfo()
		testLogger = &apitest.MultiTestLogger{Loggers: []apitest.TestLogger{
			consoleLogger,
			apitest.NewJUnitTestLogger(fs, params.jUnitFile, jUnitSuiteName, params.filters,
				apitest.JUnitProperty{Name: "tests.target.url", Value: info.BaseURL},
				apitest.JUnitProperty{Name: "tests.target.timeout", Value: info.Timeout.String()},
			),
		}}
	}

	results := apitests.RunAPITestSuite(h, params.filters, testLogger, out)

	fmt.Fprintln(out)
	if err := testLogger.EndLog(results); err != nil {
		return nil, fmt.Errorf("error writing log: %w", err)
	}

	if params.recordFailures != "" {
		if err := recordFailures(fs, params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

func loadSuppressions(fs afero.Fs, params *commandParams) error {
	file, err := fs.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}

func recordFailures(fs afero.Fs, path string, results apitest.Results) error {
	var buf bytes.Buffer
	for _, test := range results.Failures {
		fmt.Fprintln(&buf, test.TestID)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	return nil
}
