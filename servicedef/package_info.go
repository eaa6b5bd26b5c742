// Package servicedef contains definitions for the REST resources of the API under test: the JSON
// shapes of posts and comments, and the paths they are found at.
//
// The package is used both by the test suite, to build requests and describe expected responses,
// and by the in-process mock API, to produce those responses.
package servicedef
