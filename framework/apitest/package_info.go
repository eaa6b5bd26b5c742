// Package apitest contains a test runner framework that is similar to Go's testing package,
// but is run as regular Go application code rather than Go tests. This lets the API contract
// tests be shipped as a single executable that is pointed at a target URL, with richer
// configuration, logging, and result reporting than "go test" provides.
package apitest
