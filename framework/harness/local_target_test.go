package harness

import (
	"net/http"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restcontract/api-contract-tests/framework"
)

func TestLocalTargetServesHandler(t *testing.T) {
	target, err := StartLocalTarget(httphelpers.HandlerWithStatus(204), framework.NullLogger())
	require.NoError(t, err)
	defer func() { _ = target.Close() }()

	assert.Regexp(t, `^http://127\.0\.0\.1:\d+$`, target.URL())

	h, err := NewTestHarness(target.URL())
	require.NoError(t, err)
	resp, err := h.Do(NewRequest(MethodGet, "/posts"), framework.NullLogger())
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestLocalTargetStopsOnClose(t *testing.T) {
	target, err := StartLocalTarget(httphelpers.HandlerWithStatus(200), nil)
	require.NoError(t, err)
	require.NoError(t, target.Close())

	_, err = http.Get(target.URL()) //nolint:noctx
	assert.Error(t, err)
}
