// Package harness provides the shared context for an API test run (the target URL, the logger,
// and the HTTP client) and the request/response wrapper that tests use to talk to the target.
package harness
