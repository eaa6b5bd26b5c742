package servicedef

import (
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/posts/1", PostPath(1))
	assert.Equal(t, "/posts/9999", PostPath(NonExistentPostID))
	assert.Equal(t, "/posts/1/comments", PostCommentsPath(1))
}

func TestPropertyNames(t *testing.T) {
	m.In(t).Assert(jsonhelpers.ToJSON(Post{ID: 1, UserID: 2, Title: "t", Body: "b"}),
		m.JSONStrEqual(`{"id": 1, "userId": 2, "title": "t", "body": "b"}`))
	m.In(t).Assert(jsonhelpers.ToJSON(Comment{ID: 3, PostID: 1, Name: "n", Email: "e@x", Body: "b"}),
		m.JSONStrEqual(`{"id": 3, "postId": 1, "name": "n", "email": "e@x", "body": "b"}`))
	m.In(t).Assert(jsonhelpers.ToJSON(NewPost{Title: "t", Body: "b", UserID: 101}),
		m.JSONStrEqual(`{"title": "t", "body": "b", "userId": 101}`))
}
