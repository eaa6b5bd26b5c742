package apitests

import (
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/restcontract/api-contract-tests/framework/apitest"
	"github.com/restcontract/api-contract-tests/framework/harness"
	"github.com/restcontract/api-contract-tests/servicedef"
)

const existingPostID = 1

func postsTestCases() []testCase {
	return []testCase{
		{"list all", doListAllPostsTest},
		{"get by id", doGetPostByIDTest},
		{"get comments for post", doGetCommentsForPostTest},
		{"create", doCreatePostTest},
		{"full update with PUT", doReplacePostTest},
		{"partial update with PATCH", doPatchPostTest},
		{"delete", doDeletePostTest},
		{"get non-existent", doGetNonExistentPostTest},
	}
}

func newPostPayload() servicedef.NewPost {
	return servicedef.NewPost{
		Title:  "Meu Novo Post de Teste",
		Body:   "Este é o conteúdo do post criado pelo teste automatizado.",
		UserID: 101,
	}
}

func replacementPostPayload() servicedef.Post {
	return servicedef.Post{
		ID:     existingPostID,
		Title:  "Post Atualizado Totalmente",
		Body:   "Conteúdo completamente modificado pelo método PUT.",
		UserID: 1,
	}
}

const patchedTitle = "Post Atualizado Parcialmente (PATCH)"

func doListAllPostsTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Info("Starting test: list all posts")

	resp := send(t, harness.NewRequest(harness.MethodGet, servicedef.PostsPath))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(NonEmptyJSONArray()))

	log.Infof("Test passed: received %d posts", resp.Body.Count())
}

func doGetPostByIDTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Infof("Starting test: get post with ID %d", existingPostID)

	resp := send(t, harness.NewRequest(harness.MethodGet, servicedef.PostPath(existingPostID)))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(JSONObject()))
	m.In(t).For("post").Require(resp.Body, JSONPropertyEqual("id", existingPostID))

	log.Infof("Test passed: post %d has title %s", existingPostID, resp.Body.GetByKey("title").JSONString())
}

func doGetCommentsForPostTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Infof("Starting test: get comments for post %d", existingPostID)

	resp := send(t, harness.NewRequest(harness.MethodGet, servicedef.PostCommentsPath(existingPostID)))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(NonEmptyJSONArray()))
	m.In(t).For("comments").Require(resp.Body, EveryJSONItem(JSONPropertyEqual("postId", existingPostID)))

	log.Infof("Test passed: post %d has %d comments", existingPostID, resp.Body.Count())
}

func doCreatePostTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Info("Starting test: create a post")

	payload := newPostPayload()
	resp := send(t, harness.NewRequest(harness.MethodPost, servicedef.PostsPath).WithBody(payload))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(201)))
	m.In(t).Require(resp, ResponseBody().Should(JSONObject()))
	m.In(t).For("created post").Require(resp.Body, m.AllOf(
		HasJSONProperty("id"),
		JSONPropertyEqual("title", payload.Title),
		JSONPropertyEqual("body", payload.Body),
		JSONPropertyEqual("userId", payload.UserID),
	))

	log.Infof("Test passed: post created with ID %s", resp.Body.GetByKey("id").JSONString())
}

func doReplacePostTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Infof("Starting test: replace post %d with PUT", existingPostID)

	payload := replacementPostPayload()
	resp := send(t, harness.NewRequest(harness.MethodPut, servicedef.PostPath(existingPostID)).WithBody(payload))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(JSONObject()))
	m.In(t).For("updated post").Require(resp.Body, m.AllOf(
		JSONPropertyEqual("id", payload.ID),
		JSONPropertyEqual("title", payload.Title),
		JSONPropertyEqual("body", payload.Body),
		JSONPropertyEqual("userId", payload.UserID),
	))

	log.Infof("Test passed: post %d replaced", existingPostID)
}

func doPatchPostTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Infof("Starting test: update post %d with PATCH", existingPostID)

	payload := map[string]string{"title": patchedTitle}
	resp := send(t, harness.NewRequest(harness.MethodPatch, servicedef.PostPath(existingPostID)).WithBody(payload))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(JSONObject()))
	m.In(t).For("updated post").Require(resp.Body, m.AllOf(
		JSONPropertyEqual("id", existingPostID),
		JSONPropertyEqual("title", patchedTitle),
		HasJSONProperty("body"),
		HasJSONProperty("userId"),
	))

	log.Infof("Test passed: post %d title changed, other fields kept", existingPostID)
}

func doDeletePostTest(t *apitest.T) {
	c := requireContext(t)
	log := c.logger()
	log.Infof("Starting test: delete post %d", existingPostID)

	resp := send(t, harness.NewRequest(harness.MethodDelete, servicedef.PostPath(existingPostID)))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(200)))
	m.In(t).Require(resp, ResponseBody().Should(EmptyJSONObject()))

	// The API does not really delete anything, so the follow-up request is only reported, never
	// checked. A failure here does not fail the test either.
	followUp, err := c.harness.Do(harness.NewRequest(harness.MethodGet, servicedef.PostPath(existingPostID)),
		c.requestLogger(t))
	if err != nil {
		log.Warnf("Follow-up GET after DELETE could not be completed: %s", err)
	} else {
		log.Warnf("The API does not persist deletions; GET after DELETE returned status %d", followUp.StatusCode)
	}

	log.Infof("Test passed: delete of post %d accepted", existingPostID)
}

func doGetNonExistentPostTest(t *apitest.T) {
	log := requireContext(t).logger()
	log.Infof("Starting test: get post %d, which does not exist", servicedef.NonExistentPostID)

	resp := send(t, harness.NewRequest(harness.MethodGet, servicedef.PostPath(servicedef.NonExistentPostID)))

	m.In(t).Require(resp, StatusCode().Should(m.Equal(404)))

	log.Info("Test passed: missing post reported as not found")
}
