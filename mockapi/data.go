package mockapi

import (
	"fmt"
	"strings"

	"github.com/restcontract/api-contract-tests/servicedef"
)

const (
	// SeededPostCount is the number of posts the service starts with; their IDs are 1 to SeededPostCount.
	SeededPostCount = 100

	// CommentsPerPost is the number of comments seeded for every post.
	CommentsPerPost = 5

	postsPerUser = 10
)

var loremWords = strings.Fields( //nolint:gochecknoglobals
	"sunt aut facere repellat provident occaecati excepturi optio reprehenderit qui est esse " +
		"ea molestias quasi exercitationem repellat qui ipsa sit aut eum et est occaecati nesciunt " +
		"quas odio magnam facilis autem dolorem dolore est ipsam voluptatem",
)

func words(seed, count int) string {
	ret := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ret = append(ret, loremWords[(seed*7+i*3)%len(loremWords)])
	}
	return strings.Join(ret, " ")
}

func seedPosts() []servicedef.Post {
	ret := make([]servicedef.Post, 0, SeededPostCount)
	for id := 1; id <= SeededPostCount; id++ {
		ret = append(ret, servicedef.Post{
			ID:     id,
			UserID: (id-1)/postsPerUser + 1,
			Title:  words(id, 6),
			Body:   words(id+1, 20),
		})
	}
	return ret
}

func seedComments() []servicedef.Comment {
	ret := make([]servicedef.Comment, 0, SeededPostCount*CommentsPerPost)
	for postID := 1; postID <= SeededPostCount; postID++ {
		for i := 0; i < CommentsPerPost; i++ {
			id := (postID-1)*CommentsPerPost + i + 1
			ret = append(ret, servicedef.Comment{
				ID:     id,
				PostID: postID,
				Name:   words(id, 4),
				Email:  fmt.Sprintf("commenter%d@example.com", id),
				Body:   words(id+2, 15),
			})
		}
	}
	return ret
}
