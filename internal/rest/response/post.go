package response

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

type Comment struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Author is the hydrated display identity attached to each post.
type Author struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type Post struct {
	Author     string    `json:"author"`
	PhotoID    string    `json:"photoId"`
	Caption    string    `json:"caption"`
	Likes      int64     `json:"likes"`
	LikedBy    []string  `json:"likedBy"`
	Comments   []Comment `json:"comments"`
	PostedTime string    `json:"postedTime"`
	User       Author    `json:"user"`
	ImageURL   string    `json:"imageUrl"`
}

func NewPostFromDomain(p *domain.Post) Post {
	likedBy := p.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	comments := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, Comment{User: c.Author, Text: c.Text})
	}
	return Post{
		Author:     p.AuthorID,
		PhotoID:    p.PhotoID,
		Caption:    p.Caption,
		Likes:      p.LikeCount,
		LikedBy:    likedBy,
		Comments:   comments,
		PostedTime: p.PostedAt,
		User: Author{
			Name:      p.Author.Name,
			AvatarURL: p.Author.AvatarURL,
		},
		ImageURL: p.ImageURL,
	}
}

func NewPostsFromDomain(posts []domain.Post) []Post {
	res := make([]Post, 0, len(posts))
	for i := range posts {
		res = append(res, NewPostFromDomain(&posts[i]))
	}
	return res
}

// ToDomain is the inverse mapping, used by clients consuming the feed.
func (p *Post) ToDomain() domain.Post {
	comments := make([]domain.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, domain.Comment{Author: c.User, Text: c.Text})
	}
	return domain.Post{
		AuthorID:  p.Author,
		PhotoID:   p.PhotoID,
		Caption:   p.Caption,
		LikeCount: p.Likes,
		LikedBy:   p.LikedBy,
		Comments:  comments,
		PostedAt:  p.PostedTime,
		Author: domain.UserProfile{
			Name:      p.User.Name,
			AvatarURL: p.User.AvatarURL,
		},
		ImageURL: p.ImageURL,
	}
}
