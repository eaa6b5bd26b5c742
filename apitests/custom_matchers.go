package apitests

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/restcontract/api-contract-tests/framework/harness"
	"github.com/restcontract/api-contract-tests/framework/helpers"
)

// The functions in this file are for convenient use of the matchers API with HTTP responses
// and JSON bodies. For more information, see matchers.Transform.

const maxJSONInFailureMessage = 300

func StatusCode() m.MatcherTransform {
	return m.Transform(
		"status code",
		func(value interface{}) (interface{}, error) {
			return value.(harness.Response).StatusCode, nil
		}).
		EnsureInputValueType(harness.Response{})
}

// ResponseBody applies matchers to the parsed JSON body of a response. If the body could not be
// parsed, the match fails with the parse error.
func ResponseBody() m.MatcherTransform {
	return m.Transform(
		"response body",
		func(value interface{}) (interface{}, error) {
			r := value.(harness.Response)
			if r.ParseError != nil {
				return nil, r.ParseError
			}
			return r.Body, nil
		}).
		EnsureInputValueType(harness.Response{})
}

func asJSONValue(value interface{}) ldvalue.Value {
	if v, ok := value.(ldvalue.Value); ok {
		return v
	}
	return ldvalue.Parse(jsonhelpers.ToJSON(value))
}

func describeJSON(value interface{}) string {
	s := asJSONValue(value).JSONString()
	if len(s) > maxJSONInFailureMessage {
		return s[:maxJSONInFailureMessage] + "..."
	}
	return s
}

func jsonTypeName(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.ObjectType:
		return "object"
	case ldvalue.ArrayType:
		return "array"
	case ldvalue.StringType:
		return "string"
	case ldvalue.NumberType:
		return "number"
	case ldvalue.BoolType:
		return "boolean"
	default:
		return "null"
	}
}

func JSONObject() m.Matcher {
	return m.New(
		func(value interface{}) bool {
			return asJSONValue(value).Type() == ldvalue.ObjectType
		},
		func() string {
			return "is a JSON object"
		},
		func(value interface{}) string {
			return fmt.Sprintf("expected a JSON object, got %s: %s", jsonTypeName(asJSONValue(value)), describeJSON(value))
		},
	)
}

func JSONArrayOfLengthAtLeast(minLength int) m.Matcher {
	return m.New(
		func(value interface{}) bool {
			v := asJSONValue(value)
			return v.Type() == ldvalue.ArrayType && v.Count() >= minLength
		},
		func() string {
			return fmt.Sprintf("is a JSON array with at least %d %s", minLength, helpers.Plural(minLength, "item"))
		},
		func(value interface{}) string {
			v := asJSONValue(value)
			if v.Type() != ldvalue.ArrayType {
				return fmt.Sprintf("expected a JSON array, got %s: %s", jsonTypeName(v), describeJSON(value))
			}
			return fmt.Sprintf("expected at least %d %s, got %d", minLength, helpers.Plural(minLength, "item"), v.Count())
		},
	)
}

func NonEmptyJSONArray() m.Matcher {
	return JSONArrayOfLengthAtLeast(1)
}

// EveryJSONItem verifies that the value is a JSON array and that every element satisfies the
// matcher. An empty array passes. On failure, the description lists each element that did not
// match and why.
func EveryJSONItem(matcher m.Matcher) m.Matcher {
	return m.Transform(
		"items not matching",
		func(value interface{}) (interface{}, error) {
			v := asJSONValue(value)
			if v.Type() != ldvalue.ArrayType {
				return nil, fmt.Errorf("expected a JSON array, got %s: %s", jsonTypeName(v), describeJSON(value))
			}
			failures := []string{}
			for i := 0; i < v.Count(); i++ {
				recorder := &helpers.TestRecorder{}
				m.In(recorder).For(fmt.Sprintf("item %d", i)).Assert(v.GetByIndex(i), matcher)
				failures = append(failures, recorder.Errors...)
			}
			return failures, nil
		}).
		Should(m.Length().Should(m.Equal(0)))
}

func HasJSONProperty(name string) m.Matcher {
	return m.JSONOptProperty(name).Should(m.Not(m.BeNil()))
}

func JSONPropertyEqual(name string, value interface{}) m.Matcher {
	return m.JSONProperty(name).Should(m.JSONEqual(value))
}

func EmptyJSONObject() m.Matcher {
	return m.AllOf(JSONObject(), m.JSONStrEqual("{}"))
}
