// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of API tests. The base package contains shared
// types such as Logger; other components are in the subpackages apitest, harness, logging,
// helpers, and opt.
//
// The general model is:
//
// 1. The test harness talks to a target API over plain HTTP. It owns the only shared state
// of a test run, which is the base URL of the target and the logger used for progress output.
// Both are fixed when the harness is created and never change afterward.
//
// 2. There is a general notion of a test scope which is similar to Go's testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for building the
// requests to send, and for the assertions that are made about each response.
package framework
