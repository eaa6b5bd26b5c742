// Package mockapi is an in-process stand-in for the API under test. It serves the same posts and
// comments resources with the same status codes and response shapes, so that the test suite can
// be exercised without network access. Like the real API, it accepts writes but never persists
// them: every request sees the original seeded data.
package mockapi
