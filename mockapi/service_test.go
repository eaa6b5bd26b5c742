package mockapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restcontract/api-contract-tests/servicedef"
)

type mockResponse struct {
	status int
	body   ldvalue.Value
}

func withService(t *testing.T, action func(doRequest func(method, path, body string) mockResponse)) {
	testLog := ldlogtest.NewMockLog()
	testLog.Loggers.SetMinLevel(ldlog.Debug)
	defer testLog.DumpIfTestFailed(t)

	service := NewService(testLog.Loggers.ForLevel(ldlog.Debug))

	httphelpers.WithServer(service, func(server *httptest.Server) {
		action(func(method, path, body string) mockResponse {
			var bodyReader io.Reader
			if body != "" {
				bodyReader = bytes.NewBufferString(body)
			}
			req, _ := http.NewRequest(method, server.URL+path, bodyReader)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			return mockResponse{status: resp.StatusCode, body: ldvalue.Parse(data)}
		})
	})
}

func TestListPosts(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("GET", servicedef.PostsPath, "")
		assert.Equal(t, 200, resp.status)
		require.Equal(t, ldvalue.ArrayType, resp.body.Type())
		assert.Equal(t, SeededPostCount, resp.body.Count())
		first := resp.body.GetByIndex(0)
		assert.Equal(t, 1, first.GetByKey("id").IntValue())
		assert.Equal(t, 1, first.GetByKey("userId").IntValue())
		last := resp.body.GetByIndex(SeededPostCount - 1)
		assert.Equal(t, SeededPostCount, last.GetByKey("id").IntValue())
		assert.Equal(t, 10, last.GetByKey("userId").IntValue())
	})
}

func TestListPostsByUser(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("GET", "/posts?userId=3", "")
		assert.Equal(t, 200, resp.status)
		require.Equal(t, 10, resp.body.Count())
		for i := 0; i < resp.body.Count(); i++ {
			assert.Equal(t, 3, resp.body.GetByIndex(i).GetByKey("userId").IntValue())
		}
		assert.Equal(t, 0, doRequest("GET", "/posts?userId=x", "").body.Count())
	})
}

func TestGetPost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("GET", servicedef.PostPath(1), "")
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.AllOf(
			m.JSONProperty("id").Should(m.JSONEqual(1)),
			m.JSONProperty("userId").Should(m.JSONEqual(1)),
			m.JSONProperty("title").Should(m.Not(m.BeNil())),
			m.JSONProperty("body").Should(m.Not(m.BeNil())),
		))
	})
}

func TestGetNonExistentPost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		for _, path := range []string{servicedef.PostPath(servicedef.NonExistentPostID), "/posts/0", "/posts/abc"} {
			resp := doRequest("GET", path, "")
			assert.Equal(t, 404, resp.status, path)
			m.In(t).For(path).Assert(resp.body, m.JSONStrEqual(`{}`))
		}
	})
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("GET", "/albums", "")
		assert.Equal(t, 404, resp.status)
	})
}

func TestListPostComments(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("GET", servicedef.PostCommentsPath(1), "")
		assert.Equal(t, 200, resp.status)
		require.Equal(t, CommentsPerPost, resp.body.Count())
		for i := 0; i < resp.body.Count(); i++ {
			c := resp.body.GetByIndex(i)
			assert.Equal(t, 1, c.GetByKey("postId").IntValue())
			assert.Equal(t, i+1, c.GetByKey("id").IntValue())
		}

		resp = doRequest("GET", servicedef.PostCommentsPath(servicedef.NonExistentPostID), "")
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.JSONStrEqual(`[]`))
	})
}

func TestListCommentsByPost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		assert.Equal(t, SeededPostCount*CommentsPerPost, doRequest("GET", "/comments", "").body.Count())
		resp := doRequest("GET", "/comments?postId=2", "")
		require.Equal(t, CommentsPerPost, resp.body.Count())
		assert.Equal(t, 6, resp.body.GetByIndex(0).GetByKey("id").IntValue())
	})
}

func TestCreatePost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		body := `{"title": "a", "body": "b", "userId": 101}`
		for i := 0; i < 2; i++ { // nothing is persisted, so the assigned ID never changes
			resp := doRequest("POST", servicedef.PostsPath, body)
			assert.Equal(t, 201, resp.status)
			m.In(t).Assert(resp.body, m.JSONStrEqual(`{"id": 101, "title": "a", "body": "b", "userId": 101}`))
		}
		assert.Equal(t, SeededPostCount, doRequest("GET", servicedef.PostsPath, "").body.Count())
	})
}

func TestCreatePostRejectsInvalidBody(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		for _, body := range []string{`{`, `[1]`, `null`} {
			resp := doRequest("POST", servicedef.PostsPath, body)
			assert.Equal(t, 400, resp.status, body)
		}
	})
}

func TestReplacePost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("PUT", servicedef.PostPath(1), `{"id": 1, "title": "t", "body": "b", "userId": 1}`)
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.JSONStrEqual(`{"id": 1, "title": "t", "body": "b", "userId": 1}`))

		// a PUT replaces the whole resource, so fields that were not sent are gone
		resp = doRequest("PUT", servicedef.PostPath(2), `{"title": "only"}`)
		m.In(t).Assert(resp.body, m.JSONStrEqual(`{"id": 2, "title": "only"}`))

		assert.Equal(t, 404, doRequest("PUT", servicedef.PostPath(servicedef.NonExistentPostID), `{}`).status)
	})
}

func TestPatchPost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		original := doRequest("GET", servicedef.PostPath(1), "").body
		resp := doRequest("PATCH", servicedef.PostPath(1), `{"title": "patched"}`)
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.AllOf(
			m.JSONProperty("id").Should(m.JSONEqual(1)),
			m.JSONProperty("title").Should(m.JSONEqual("patched")),
			m.JSONProperty("body").Should(m.JSONEqual(original.GetByKey("body"))),
			m.JSONProperty("userId").Should(m.JSONEqual(original.GetByKey("userId"))),
		))

		// not persisted
		m.In(t).Assert(doRequest("GET", servicedef.PostPath(1), "").body, m.JSONEqual(original))
	})
}

func TestPatchPostWithEmptyBodyReturnsPost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		original := doRequest("GET", servicedef.PostPath(2), "").body
		resp := doRequest("PATCH", servicedef.PostPath(2), "")
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.JSONEqual(original))
	})
}

func TestPostFieldsMatchPostJSON(t *testing.T) {
	post := seedPosts()[0]
	m.In(t).Assert(postFields(post), m.JSONEqual(post))
}

func TestDeletePost(t *testing.T) {
	withService(t, func(doRequest func(method, path, body string) mockResponse) {
		resp := doRequest("DELETE", servicedef.PostPath(1), "")
		assert.Equal(t, 200, resp.status)
		m.In(t).Assert(resp.body, m.JSONStrEqual(`{}`))

		// not persisted: the post is still there afterward
		assert.Equal(t, 200, doRequest("GET", servicedef.PostPath(1), "").status)

		assert.Equal(t, 404, doRequest("DELETE", servicedef.PostPath(servicedef.NonExistentPostID), "").status)
	})
}

func TestServiceLogsRequests(t *testing.T) {
	testLog := ldlogtest.NewMockLog()
	testLog.Loggers.SetMinLevel(ldlog.Debug)
	service := NewService(testLog.Loggers.ForLevel(ldlog.Debug))

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", servicedef.PostPath(1), nil)
	service.ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	assert.True(t, testLog.HasMessageMatch(ldlog.Debug, `Mock API: GET /posts/1 -> 200`))
}

func TestSeededDataIsDeterministic(t *testing.T) {
	a, b := seedPosts(), seedPosts()
	assert.Equal(t, a, b)
	assert.Equal(t, 1, a[0].ID)
	comments := seedComments()
	assert.Len(t, comments, SeededPostCount*CommentsPerPost)
	assert.Equal(t, 100, comments[len(comments)-1].PostID)
}
