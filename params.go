package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/afero"

	"github.com/restcontract/api-contract-tests/config"
	"github.com/restcontract/api-contract-tests/framework/apitest"
	"github.com/restcontract/api-contract-tests/framework/harness"
	"github.com/restcontract/api-contract-tests/framework/logging"
)

type commandParams struct {
	program        string
	targetURL      string
	filters        apitest.RegexFilters
	timeout        time.Duration
	debug          bool
	debugAll       bool
	jUnitFile      string
	skipFile       string
	recordFailures string
	configFile     string
	logLevel       string
	mock           bool
	list           bool
}

// Read parses the command line, then fills in anything that was not given on the command line
// from the configuration file if there is one. Errors are written to errOut.
func (c *commandParams) Read(args []string, fs afero.Fs, errOut io.Writer) bool {
	c.program = args[0]
	flags := flag.NewFlagSet(c.program, flag.ContinueOnError)
	flags.SetOutput(errOut)
	flags.StringVar(&c.targetURL, "url", harness.DefaultBaseURL, "base URL of the API under test")
	flags.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	flags.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	flags.DurationVar(&c.timeout, "timeout", harness.DefaultTimeout, "timeout for each HTTP request")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	flags.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	flags.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	flags.StringVar(&c.skipFile, "skip-file", "", "file containing IDs of tests to skip, one per line")
	flags.StringVar(&c.recordFailures, "record-failures", "", "write IDs of failed tests to the specified path")
	flags.StringVar(&c.configFile, "config", "", "JSON or YAML file with default values for these options")
	flags.StringVar(&c.logLevel, "log-level", "INFO", "minimum level of API log messages")
	flags.BoolVar(&c.mock, "mock", false, "run against a local mock of the API instead of -url")
	flags.BoolVar(&c.list, "list", false, "list the IDs of all tests and exit")

	if err := flags.Parse(args[1:]); err != nil {
		return false
	}
	for _, arg := range flags.Args() {
		if err := c.filters.MustMatch.Set(arg); err != nil {
			fmt.Fprintf(errOut, "invalid test pattern %q: %s\n", arg, err)
			return false
		}
	}

	if c.configFile != "" {
		explicit := make(map[string]bool)
		flags.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if flags.NArg() > 0 {
			explicit["run"] = true // positional arguments are -run patterns
		}
		fileConfig, err := config.Load(fs, c.configFile)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
		if err := c.applyConfig(fileConfig, explicit); err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
	}

	if c.timeout <= 0 {
		fmt.Fprintln(errOut, "-timeout must be greater than zero")
		flags.Usage()
		return false
	}
	if _, err := logging.ParseLevel(c.logLevel); err != nil {
		fmt.Fprintf(errOut, "invalid -log-level: %s\n", err)
		return false
	}
	return true
}

func (c *commandParams) applyConfig(fc config.RunConfig, explicit map[string]bool) error {
	setString := func(flagName string, target *string, value string) {
		if !explicit[flagName] && value != "" {
			*target = value
		}
	}
	setBool := func(flagName string, target *bool, value *bool) {
		if !explicit[flagName] && value != nil {
			*target = *value
		}
	}
	setPatterns := func(flagName string, target *apitest.TestIDPatternList, values []string) error {
		if explicit[flagName] {
			return nil
		}
		for _, v := range values {
			if err := target.Set(v); err != nil {
				return fmt.Errorf("invalid %s pattern %q in configuration file: %w", flagName, v, err)
			}
		}
		return nil
	}

	setString("url", &c.targetURL, fc.URL)
	setString("junit", &c.jUnitFile, fc.JUnit)
	setString("skip-file", &c.skipFile, fc.SkipFile)
	setString("record-failures", &c.recordFailures, fc.RecordFailures)
	setString("log-level", &c.logLevel, fc.LogLevel)
	setBool("debug", &c.debug, fc.Debug)
	setBool("debug-all", &c.debugAll, fc.DebugAll)
	setBool("mock", &c.mock, fc.Mock)
	if !explicit["timeout"] && fc.Timeout != "" {
		d, err := fc.TimeoutDuration()
		if err != nil {
			return err
		}
		c.timeout = d
	}
	if err := setPatterns("run", &c.filters.MustMatch, fc.Run); err != nil {
		return err
	}
	return setPatterns("skip", &c.filters.MustNotMatch, fc.Skip)
}

// rerunCommand builds a command line that runs only the given tests against the same target.
func (c *commandParams) rerunCommand(failed []apitest.TestID) string {
	var cmd commandBuilder
	cmd.add(c.program)
	if c.mock {
		cmd.add("-mock")
	} else {
		cmd.add("-url", c.targetURL)
	}
	if c.timeout != harness.DefaultTimeout {
		cmd.add("-timeout", c.timeout.String())
	}
	for _, id := range failed {
		cmd.add("-run", exactTestIDPattern(id))
	}
	return cmd.String()
}

func exactTestIDPattern(id apitest.TestID) string {
	parts := make([]string, 0, len(id))
	for _, name := range id {
		parts = append(parts, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(parts, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
