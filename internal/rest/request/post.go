package request

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

// Post is the payload for creating a feed post. The author comes from the
// authenticated identity, never from the body.
type Post struct {
	PhotoID string `json:"photoId" binding:"required"`
	Caption string `json:"caption" binding:"required"`
}

func (p *Post) ToDomain(authorID string) domain.Post {
	return domain.Post{
		AuthorID: authorID,
		PhotoID:  p.PhotoID,
		Caption:  p.Caption,
	}
}

// PostRef addresses an existing post by its compound key.
type PostRef struct {
	Author  string `json:"author" binding:"required"`
	PhotoID string `json:"photoId" binding:"required"`
}

type Comment struct {
	Author  string `json:"author" binding:"required"`
	PhotoID string `json:"photoId" binding:"required"`
	Text    string `json:"text" binding:"required"`
}
