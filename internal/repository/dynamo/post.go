package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/repository"
	"github.com/snapnutrient/snapnutrient/internal/repository/dynamo/model"
)

const (
	postLikesAttr    = "likes"
	postLikedByAttr  = "liked_by"
	postCommentsAttr = "comments"
	feedTypeAttr     = "feed_type"
)

type postRepository struct {
	store RecordStore
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository creates the persistence layer for social posts.
func NewPostRepository(store RecordStore) *postRepository {
	return &postRepository{store}
}

func postKey(authorID, photoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":       &types.AttributeValueMemberS{Value: authorID},
		"photo_id": &types.AttributeValueMemberS{Value: photoID},
	}
}

func (r *postRepository) Store(ctx context.Context, p *domain.Post) error {
	if p.PostedAt == "" {
		p.PostedAt = time.Now().UTC().Format(time.RFC3339)
	}
	item, err := attributevalue.MarshalMap(model.NewPostFromDomain(p))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, item)
}

func (r *postRepository) GetByID(ctx context.Context, authorID, photoID string) (res domain.Post, err error) {
	item, err := r.store.Get(ctx, postKey(authorID, photoID))
	if err != nil {
		return res, err
	}
	if item == nil {
		return res, domain.ErrNotFound
	}

	var post model.Post
	if err = attributevalue.UnmarshalMap(item, &post); err != nil {
		return res, err
	}
	res = post.ToDomain()
	return
}

func (r *postRepository) FetchFeed(ctx context.Context, cursor string, num int64) (res []domain.Post, nextCursor string, err error) {
	decodedCursor, err := repository.DecodeCursor(cursor)
	if err != nil {
		return nil, "", domain.ErrBadParamInput
	}

	repository.PageVerify(&num)
	items, lastKey, err := r.store.QueryIndexDesc(ctx, feedTypeAttr, domain.FeedPartition, int32(num), stringsToKey(decodedCursor))
	if err != nil {
		return nil, "", err
	}

	for _, item := range items {
		var post model.Post
		if err = attributevalue.UnmarshalMap(item, &post); err != nil {
			return nil, "", err
		}
		res = append(res, post.ToDomain())
	}

	// A short page means the feed is exhausted even if the store handed
	// back a resume key.
	if int64(len(res)) == num {
		nextCursor = repository.EncodeCursor(keyToStrings(lastKey))
	}
	return
}

func (r *postRepository) ToggleLike(ctx context.Context, authorID, photoID, userID string) (res domain.Post, err error) {
	current, err := r.GetByID(ctx, authorID, photoID)
	if err != nil {
		return res, err
	}

	// The membership check and the update are separate requests, so the
	// same user toggling twice in that window can double-apply. The update
	// itself is a single server-side expression, so toggles by different
	// users stay consistent.
	var item map[string]types.AttributeValue
	if current.LikedByUser(userID) {
		item, err = r.store.RemoveFromSetAndDecr(ctx, postKey(authorID, photoID), postLikedByAttr, userID, postLikesAttr)
	} else {
		item, err = r.store.AddToSetAndIncr(ctx, postKey(authorID, photoID), postLikedByAttr, userID, postLikesAttr)
	}
	if err != nil {
		return res, err
	}

	var post model.Post
	if err = attributevalue.UnmarshalMap(item, &post); err != nil {
		return res, err
	}
	res = post.ToDomain()
	return
}

func (r *postRepository) AppendComment(ctx context.Context, authorID, photoID, userID, text string) (res domain.Post, err error) {
	if _, err = r.GetByID(ctx, authorID, photoID); err != nil {
		return res, err
	}

	element, err := attributevalue.MarshalMap(model.Comment{User: userID, Text: text})
	if err != nil {
		return res, err
	}

	item, err := r.store.AppendToList(ctx, postKey(authorID, photoID), postCommentsAttr, &types.AttributeValueMemberM{Value: element})
	if err != nil {
		return res, err
	}

	var post model.Post
	if err = attributevalue.UnmarshalMap(item, &post); err != nil {
		return res, err
	}
	res = post.ToDomain()
	return
}

func (r *postRepository) Delete(ctx context.Context, authorID, photoID string) error {
	if _, err := r.GetByID(ctx, authorID, photoID); err != nil {
		return err
	}
	return r.store.Delete(ctx, postKey(authorID, photoID))
}
