package harness

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/restcontract/api-contract-tests/framework"
	"github.com/restcontract/api-contract-tests/framework/helpers"
	"github.com/restcontract/api-contract-tests/framework/logging"
)

// DefaultBaseURL is the API that is tested if no other URL is specified.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultTimeout is the maximum time allowed for each HTTP request, including reading the body.
const DefaultTimeout = 30 * time.Second

// TestHarness is the shared context for a test run: it knows where the target API is, which
// logger to report progress to, and how to send requests.
//
// It is immutable after construction, so it can be handed to every test without any of them
// being able to affect the others. It contains no knowledge of the target API's resources; the
// test suite provides that.
type TestHarness struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *logrus.Entry
}

// TargetInfo describes the API being tested, for reporting purposes.
type TargetInfo struct {
	BaseURL string
	Timeout time.Duration
}

type harnessConfig struct {
	timeout time.Duration
	client  *http.Client
	logger  *logrus.Entry
}

// Option is a configuration option for NewTestHarness.
type Option helpers.ConfigOption[harnessConfig]

// WithTimeout sets the per-request timeout. It is ignored if WithHTTPClient is also used.
func WithTimeout(timeout time.Duration) Option {
	return helpers.ConfigOptionFunc[harnessConfig](func(c *harnessConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, was %s", timeout)
		}
		c.timeout = timeout
		return nil
	})
}

// WithHTTPClient specifies the HTTP client to use instead of creating one.
func WithHTTPClient(client *http.Client) Option {
	return helpers.ConfigOptionFunc[harnessConfig](func(c *harnessConfig) error {
		c.client = client
		return nil
	})
}

// WithLogger specifies the logger for request/response messages. The default is the logger
// named logging.APILoggerName.
func WithLogger(logger *logrus.Entry) Option {
	return helpers.ConfigOptionFunc[harnessConfig](func(c *harnessConfig) error {
		c.logger = logger
		return nil
	})
}

// NewTestHarness creates a TestHarness for the API at baseURL, which must be an absolute http or
// https URL. Any trailing slashes are removed so that resource paths can be appended to it.
func NewTestHarness(baseURL string, options ...Option) (*TestHarness, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	config := harnessConfig{timeout: DefaultTimeout}
	if err := helpers.ApplyOptions(&config, options...); err != nil {
		return nil, err
	}
	if config.client == nil {
		config.client = &http.Client{Timeout: config.timeout}
	} else if config.client.Timeout != 0 {
		config.timeout = config.client.Timeout
	}
	if config.logger == nil {
		config.logger = logging.Get(logging.APILoggerName)
	}

	return &TestHarness{
		baseURL: normalized,
		timeout: config.timeout,
		client:  config.client,
		logger:  config.logger,
	}, nil
}

func normalizeBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", errors.New("base URL must not be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base URL %q has no host", baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base URL %q must not have a query or fragment", baseURL)
	}
	return strings.TrimRight(baseURL, "/"), nil
}

// BaseURL returns the root URL of the API being tested, without a trailing slash.
func (h *TestHarness) BaseURL() string {
	return h.baseURL
}

// Logger returns the console logger that tests should report progress to.
func (h *TestHarness) Logger() *logrus.Entry {
	return h.logger
}

// TargetInfo returns a description of the API being tested.
func (h *TestHarness) TargetInfo() TargetInfo {
	return TargetInfo{BaseURL: h.baseURL, Timeout: h.timeout}
}

// TestLogger returns a framework.Logger that writes to both the console logger and, if it is
// not nil, the given test-scoped debug logger.
func (h *TestHarness) TestLogger(debugLogger framework.Logger) framework.Logger {
	return logging.DebugBridge(h.logger, debugLogger)
}
