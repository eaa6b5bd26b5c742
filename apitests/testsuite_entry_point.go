package apitests

import (
	"fmt"
	"io"

	"github.com/restcontract/api-contract-tests/framework/apitest"
	"github.com/restcontract/api-contract-tests/framework/harness"
)

// RunAPITestSuite runs every test, or those selected by filter, against the API that the
// harness points to. Progress is reported to testLogger, and an explanation of the filter (if
// it has one) is written to output first.
func RunAPITestSuite(
	harness *harness.TestHarness,
	filter apitest.Filter,
	testLogger apitest.TestLogger,
	output io.Writer,
) apitest.Results {
	if sdf, ok := filter.(apitest.SelfDescribingFilter); ok {
		sdf.Describe(output)
	}

	config := apitest.TestConfiguration{
		Filter:     filter,
		TestLogger: testLogger,
		Context: APITestContext{
			harness: harness,
		},
	}

	return apitest.Run(config, doAllTests)
}

type testCase struct {
	name   string
	action func(*apitest.T)
}

type testGroup struct {
	name  string
	cases []testCase
}

func allTestGroups() []testGroup {
	return []testGroup{
		{name: "posts", cases: postsTestCases()},
	}
}

func doAllTests(t *apitest.T) {
	for _, g := range allTestGroups() {
		cases := g.cases
		t.Run(g.name, func(t *apitest.T) {
			for _, c := range cases {
				t.Run(c.name, c.action)
			}
		})
	}
}

// AllCaseNames returns the full ID of every test, in the order they run.
func AllCaseNames() []string {
	var ret []string
	for _, g := range allTestGroups() {
		for _, c := range g.cases {
			ret = append(ret, fmt.Sprintf("%s/%s", g.name, c.name))
		}
	}
	return ret
}
