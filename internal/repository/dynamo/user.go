package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/repository/dynamo/model"
)

type userRepository struct {
	store RecordStore
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository creates the persistence layer for user profiles.
func NewUserRepository(store RecordStore) *userRepository {
	return &userRepository{store}
}

func userKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (res domain.UserProfile, err error) {
	item, err := r.store.Get(ctx, userKey(email))
	if err != nil {
		return res, err
	}
	if item == nil {
		return res, domain.ErrNotFound
	}

	var user model.User
	if err = attributevalue.UnmarshalMap(item, &user); err != nil {
		return res, err
	}
	res = user.ToDomain()
	return
}

func (r *userRepository) Insert(ctx context.Context, u *domain.UserProfile) error {
	item, err := attributevalue.MarshalMap(model.NewUserFromDomain(u))
	if err != nil {
		return err
	}
	return r.store.PutIfAbsent(ctx, item, "email")
}

func (r *userRepository) Update(ctx context.Context, u *domain.UserProfile) error {
	if _, err := r.GetByEmail(ctx, u.Email); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(model.NewUserFromDomain(u))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, item)
}
