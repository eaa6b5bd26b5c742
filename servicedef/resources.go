package servicedef

import "fmt"

const (
	PostsPath = "/posts"

	// NonExistentPostID is an ID that the target API does not have a post for.
	NonExistentPostID = 9999
)

// Post is a blog post resource.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Comment is a comment attached to a post.
type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// NewPost is the request body for creating a post. It has no ID, since the API assigns one.
type NewPost struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// PostPath returns the path of a single post.
func PostPath(id int) string {
	return fmt.Sprintf("%s/%d", PostsPath, id)
}

// PostCommentsPath returns the path of the comments belonging to a post.
func PostCommentsPath(postID int) string {
	return PostPath(postID) + "/comments"
}
