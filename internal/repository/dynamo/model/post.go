package model

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

// Comment is one element of a post's comment list attribute.
type Comment struct {
	User string `dynamodbav:"user"`
	Text string `dynamodbav:"text"`
}

// Post is the item layout of the posts table. The partition key is the
// author's identifier, the sort key the photo key, and every item carries
// the same feed_type so the posted_time index serves the whole feed.
type Post struct {
	ID         string    `dynamodbav:"id"`
	PhotoID    string    `dynamodbav:"photo_id"`
	Caption    string    `dynamodbav:"caption"`
	Likes      int64     `dynamodbav:"likes"`
	LikedBy    []string  `dynamodbav:"liked_by,stringset,omitempty"`
	Comments   []Comment `dynamodbav:"comments"`
	PostedTime string    `dynamodbav:"posted_time"`
	FeedType   string    `dynamodbav:"feed_type"`
}

func (m *Post) ToDomain() domain.Post {
	comments := make([]domain.Comment, len(m.Comments))
	for i, c := range m.Comments {
		comments[i] = domain.Comment{Author: c.User, Text: c.Text}
	}
	return domain.Post{
		AuthorID:  m.ID,
		PhotoID:   m.PhotoID,
		Caption:   m.Caption,
		LikeCount: m.Likes,
		LikedBy:   m.LikedBy,
		Comments:  comments,
		PostedAt:  m.PostedTime,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	comments := make([]Comment, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = Comment{User: c.Author, Text: c.Text}
	}
	return &Post{
		ID:         p.AuthorID,
		PhotoID:    p.PhotoID,
		Caption:    p.Caption,
		Likes:      p.LikeCount,
		LikedBy:    p.LikedBy,
		Comments:   comments,
		PostedTime: p.PostedAt,
		FeedType:   domain.FeedPartition,
	}
}
