package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/repository/dynamo/model"
)

type mealRepository struct {
	store RecordStore
}

var _ domain.MealRepository = (*mealRepository)(nil)

// NewMealRepository creates the persistence layer for the meal log.
func NewMealRepository(store RecordStore) *mealRepository {
	return &mealRepository{store}
}

func mealKey(userID, createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":    &types.AttributeValueMemberS{Value: userID},
		"created_at": &types.AttributeValueMemberS{Value: createdAt},
	}
}

func (r *mealRepository) Store(ctx context.Context, m *domain.MealRecord) error {
	if m.CreatedAt == "" {
		m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	item, err := attributevalue.MarshalMap(model.NewMealFromDomain(m))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, item)
}

func (r *mealRepository) FetchByDateRange(ctx context.Context, userID, start, end string) (res []domain.MealRecord, err error) {
	items, err := r.store.QueryRange(ctx, "user_id", userID, "created_at", start, end)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		var meal model.Meal
		if err = attributevalue.UnmarshalMap(item, &meal); err != nil {
			return nil, err
		}
		res = append(res, meal.ToDomain())
	}
	return
}

func (r *mealRepository) Update(ctx context.Context, m *domain.MealRecord) error {
	item, err := r.store.Get(ctx, mealKey(m.UserID, m.CreatedAt))
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	var stored model.Meal
	if err = attributevalue.UnmarshalMap(item, &stored); err != nil {
		return err
	}

	// Only the name and nutrients are mutable; the image key stays.
	stored.Name = m.Name
	stored.Nutrients = model.Nutrients(m.Nutrients)
	updated, err := attributevalue.MarshalMap(&stored)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, updated)
}

func (r *mealRepository) Delete(ctx context.Context, userID, createdAt string) error {
	return r.store.Delete(ctx, mealKey(userID, createdAt))
}
