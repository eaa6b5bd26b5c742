package apitests

import (
	"errors"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"

	"github.com/restcontract/api-contract-tests/framework/harness"
	"github.com/restcontract/api-contract-tests/framework/helpers"
)

func assertMatches(t *testing.T, value interface{}, matcher m.Matcher) {
	t.Helper()
	var recorder helpers.TestRecorder
	m.In(&recorder).Assert(value, matcher)
	assert.Len(t, recorder.Errors, 0, "expected match, got: %v", recorder.Errors)
}

func assertDoesNotMatch(t *testing.T, value interface{}, matcher m.Matcher) {
	t.Helper()
	var recorder helpers.TestRecorder
	m.In(&recorder).Assert(value, matcher)
	assert.NotEmpty(t, recorder.Errors, "expected %v not to match", value)
}

func TestJSONObjectMatcher(t *testing.T) {
	assertMatches(t, ldvalue.Parse([]byte(`{"id": 1}`)), JSONObject())
	assertMatches(t, map[string]int{"id": 1}, JSONObject())
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`[]`)), JSONObject())
	assertDoesNotMatch(t, ldvalue.Null(), JSONObject())
}

func TestJSONArrayMatchers(t *testing.T) {
	assertMatches(t, ldvalue.Parse([]byte(`[1]`)), NonEmptyJSONArray())
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`[]`)), NonEmptyJSONArray())
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`{}`)), NonEmptyJSONArray())
	assertMatches(t, []int{1, 2, 3}, JSONArrayOfLengthAtLeast(3))
	assertDoesNotMatch(t, []int{1, 2}, JSONArrayOfLengthAtLeast(3))
}

func TestEveryJSONItemMatcher(t *testing.T) {
	matcher := EveryJSONItem(JSONPropertyEqual("postId", 1))
	assertMatches(t, ldvalue.Parse([]byte(`[{"postId": 1}, {"postId": 1}]`)), matcher)
	assertMatches(t, ldvalue.Parse([]byte(`[]`)), matcher)
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`[{"postId": 1}, {"postId": 2}]`)), matcher)
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`[{"id": 1}]`)), matcher)
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`{"postId": 1}`)), matcher)
}

func TestPropertyMatchers(t *testing.T) {
	post := ldvalue.Parse([]byte(`{"id": 1, "title": "x", "userId": null}`))
	assertMatches(t, post, HasJSONProperty("id"))
	assertDoesNotMatch(t, post, HasJSONProperty("body"))
	assertDoesNotMatch(t, post, HasJSONProperty("userId"))
	assertMatches(t, post, JSONPropertyEqual("title", "x"))
	assertMatches(t, post, JSONPropertyEqual("id", 1))
	assertDoesNotMatch(t, post, JSONPropertyEqual("id", 2))
}

func TestEmptyJSONObjectMatcher(t *testing.T) {
	assertMatches(t, ldvalue.ObjectBuild().Build(), EmptyJSONObject())
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`{"a": 1}`)), EmptyJSONObject())
	assertDoesNotMatch(t, ldvalue.Parse([]byte(`[]`)), EmptyJSONObject())
}

func TestResponseMatchers(t *testing.T) {
	resp := harness.Response{StatusCode: 201, Body: ldvalue.Parse([]byte(`{"id": 101}`))}
	assertMatches(t, resp, StatusCode().Should(m.Equal(201)))
	assertDoesNotMatch(t, resp, StatusCode().Should(m.Equal(200)))
	assertMatches(t, resp, ResponseBody().Should(JSONObject()))

	unparsed := harness.Response{StatusCode: 200, Body: ldvalue.Null(), ParseError: errors.New("not valid JSON")}
	assertDoesNotMatch(t, unparsed, ResponseBody().Should(m.BeNil()))
}
