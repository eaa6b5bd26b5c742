package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/restcontract/api-contract-tests/framework"
	"github.com/restcontract/api-contract-tests/servicedef"
)

// Service is an http.Handler that implements the posts and comments resources.
type Service struct {
	posts       []servicedef.Post
	comments    []servicedef.Comment
	handler     http.Handler
	debugLogger framework.Logger
}

func NewService(debugLogger framework.Logger) *Service {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &Service{
		posts:       seedPosts(),
		comments:    seedComments(),
		debugLogger: debugLogger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/posts", s.listPosts).Methods("GET")
	router.HandleFunc("/posts", s.createPost).Methods("POST")
	router.HandleFunc("/posts/{id}", s.getPost).Methods("GET")
	router.HandleFunc("/posts/{id}", s.replacePost).Methods("PUT")
	router.HandleFunc("/posts/{id}", s.patchPost).Methods("PATCH")
	router.HandleFunc("/posts/{id}", s.deletePost).Methods("DELETE")
	router.HandleFunc("/posts/{id}/comments", s.listPostComments).Methods("GET")
	router.HandleFunc("/comments", s.listComments).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
	})
	s.handler = router

	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Service) listPosts(w http.ResponseWriter, r *http.Request) {
	ret := make([]servicedef.Post, 0, len(s.posts))
	userID, filtered := intQueryParam(r, "userId")
	for _, p := range s.posts {
		if !filtered || p.UserID == userID {
			ret = append(ret, p)
		}
	}
	s.writeJSON(w, r, http.StatusOK, ret)
}

func (s *Service) getPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.findPost(r)
	if !ok {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, post)
}

func (s *Service) createPost(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.readObject(w, r)
	if !ok {
		return
	}
	// The new ID is always one past the seeded data, since nothing that was created before is kept.
	fields["id"] = json.RawMessage(strconv.Itoa(len(s.posts) + 1))
	s.writeJSON(w, r, http.StatusCreated, fields)
}

func (s *Service) replacePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.findPost(r)
	if !ok {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	fields, ok := s.readObject(w, r)
	if !ok {
		return
	}
	fields["id"] = json.RawMessage(strconv.Itoa(post.ID))
	s.writeJSON(w, r, http.StatusOK, fields)
}

func (s *Service) patchPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.findPost(r)
	if !ok {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	changes, ok := s.readObject(w, r)
	if !ok {
		return
	}
	merged := postFields(post)
	for k, v := range changes {
		merged[k] = v
	}
	merged["id"] = json.RawMessage(strconv.Itoa(post.ID))
	s.writeJSON(w, r, http.StatusOK, merged)
}

func (s *Service) deletePost(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.findPost(r); !ok {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, struct{}{})
}

func (s *Service) listPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	ret := make([]servicedef.Comment, 0, CommentsPerPost)
	if err == nil {
		ret = append(ret, s.commentsFor(postID)...)
	}
	s.writeJSON(w, r, http.StatusOK, ret)
}

func (s *Service) listComments(w http.ResponseWriter, r *http.Request) {
	postID, filtered := intQueryParam(r, "postId")
	if filtered {
		s.writeJSON(w, r, http.StatusOK, append([]servicedef.Comment{}, s.commentsFor(postID)...))
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.comments)
}

func (s *Service) commentsFor(postID int) []servicedef.Comment {
	var ret []servicedef.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			ret = append(ret, c)
		}
	}
	return ret
}

func (s *Service) findPost(r *http.Request) (servicedef.Post, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 || id > len(s.posts) {
		return servicedef.Post{}, false
	}
	return s.posts[id-1], true
}

func (s *Service) readObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, struct{}{})
		return nil, false
	}
	fields := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return fields, true
	}
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		s.debugLogger.Printf("Mock API rejected request body for %s %s: %s", r.Method, r.URL.Path, string(data))
		s.writeJSON(w, r, http.StatusBadRequest, struct{}{})
		return nil, false
	}
	return fields, true
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, value interface{}) {
	data := mustMarshal(value)
	s.debugLogger.Printf("Mock API: %s %s -> %d (%d bytes)", r.Method, r.URL.Path, status, len(data))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// postFields is the JSON representation of a post as a map, so that request fields can be merged in.
func postFields(post servicedef.Post) map[string]json.RawMessage {
	return map[string]json.RawMessage{
		"id":     mustMarshal(post.ID),
		"userId": mustMarshal(post.UserID),
		"title":  mustMarshal(post.Title),
		"body":   mustMarshal(post.Body),
	}
}

func intQueryParam(r *http.Request, name string) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, true // matches nothing
	}
	return n, true
}

func mustMarshal(value interface{}) []byte {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err) // only called with types that always marshal
	}
	return data
}
