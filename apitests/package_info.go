// Package apitests contains the contract tests for the posts API: each test sends one request
// (or a short sequence of them) and verifies the status code and the shape of the response body.
//
// The tests assume nothing about persistence. The target API may accept writes without storing
// them, so no test depends on the effect of another.
package apitests
