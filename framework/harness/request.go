package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/restcontract/api-contract-tests/framework"
	"github.com/restcontract/api-contract-tests/framework/helpers"
	o "github.com/restcontract/api-contract-tests/framework/opt"
)

// Method is an HTTP method that requests can use.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Valid returns true if this is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// Request describes one HTTP call to the API being tested.
type Request struct {
	Method Method
	Path   string

	// Body, if defined, is sent as JSON.
	Body o.Maybe[ldvalue.Value]
}

// NewRequest creates a Request with no body.
func NewRequest(method Method, path string) Request {
	return Request{Method: method, Path: path}
}

// WithBody returns a copy of the request with a JSON body. The value can be an ldvalue.Value or
// anything that json.Marshal accepts.
func (r Request) WithBody(body interface{}) Request {
	if v, ok := body.(ldvalue.Value); ok {
		r.Body = o.Some(v)
	} else {
		r.Body = o.Some(helpers.AsJSONValue(body))
	}
	return r
}

// URL returns the full request URL, joining baseURL and Path with exactly one slash.
func (r Request) URL(baseURL string) string {
	path := strings.TrimLeft(r.Path, "/")
	if path == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + path
}

func (r Request) String() string {
	if r.Body.IsDefined() {
		return fmt.Sprintf("%s %s %s", r.Method, r.Path, r.Body.Value().JSONString())
	}
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}

// Response is the result of one HTTP call.
type Response struct {
	StatusCode int

	// Body is the parsed JSON body. An empty body is represented as an empty JSON object. If the
	// body was not valid JSON, Body is null and ParseError is set.
	Body       ldvalue.Value
	RawBody    []byte
	Header     http.Header
	ParseError error
}

// TransportError means that a request could not be completed at all: the host could not be
// resolved, the connection was refused or dropped, or the request timed out.
type TransportError struct {
	Method Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError returns true if err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Do sends a request to the API being tested and returns its response. The request and the
// resulting status code are logged to logger, or to the harness's console logger if logger is
// nil. A non-2xx status is not an error; only a failure to complete the request is, in which
// case the error is a *TransportError. Requests are never retried.
func (h *TestHarness) Do(req Request, logger framework.Logger) (Response, error) {
	if logger == nil {
		logger = h.TestLogger(nil)
	}
	if !req.Method.Valid() {
		return Response{}, fmt.Errorf("unsupported HTTP method %q", req.Method)
	}
	url := req.URL(h.baseURL)

	var bodyReader io.Reader
	if req.Body.IsDefined() {
		data := []byte(req.Body.Value().JSONString())
		logger.Printf("Sending %s to %s with data: %s", req.Method, url, data)
		bodyReader = bytes.NewReader(data)
	} else {
		logger.Printf("Sending %s to %s", req.Method, url)
	}

	httpReq, err := http.NewRequest(string(req.Method), url, bodyReader)
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Response{}, &TransportError{Method: req.Method, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &TransportError{Method: req.Method, URL: url, Err: err}
	}
	logger.Printf("Received status code: %d", resp.StatusCode)

	return newResponse(resp.StatusCode, resp.Header, raw), nil
}

func newResponse(status int, header http.Header, raw []byte) Response {
	r := Response{StatusCode: status, RawBody: raw, Header: header}
	if len(bytes.TrimSpace(raw)) == 0 {
		r.Body = ldvalue.ObjectBuild().Build()
		return r
	}
	var body ldvalue.Value
	if err := json.Unmarshal(raw, &body); err != nil {
		r.Body = ldvalue.Null()
		r.ParseError = fmt.Errorf("response body is not valid JSON (%s): %q", err, truncate(string(raw), 200))
		return r
	}
	r.Body = body
	return r
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RequireResponse calls Do and returns the response. If the request could not be completed, it
// reports a transport error and terminates the test; that failure is counted separately from
// assertion failures.
func RequireResponse(t helpers.TestContext, h *TestHarness, req Request, logger framework.Logger) Response {
	if th, ok := t.(interface{ Helper() }); ok {
		th.Helper()
	}
	resp, err := h.Do(req, logger)
	if err == nil {
		return resp
	}
	if IsTransportError(err) {
		if reporter, ok := t.(helpers.TransportFailureReporter); ok {
			reporter.TransportFailure(err)
		} else {
			t.Errorf("transport error: %s", err)
		}
	} else {
		t.Errorf("could not send request %s: %s", req, err)
	}
	t.FailNow()
	return Response{}
}
