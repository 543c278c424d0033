package model

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

// Nutrients is stored as one nested map attribute per meal item.
type Nutrients struct {
	Calories      float64 `dynamodbav:"calories"`
	Protein       float64 `dynamodbav:"protein"`
	Carbohydrates float64 `dynamodbav:"carbohydrates"`
	Fat           float64 `dynamodbav:"fat"`
	Fiber         float64 `dynamodbav:"fiber"`
	Sugar         float64 `dynamodbav:"sugar"`
	Sodium        float64 `dynamodbav:"sodium"`
}

// Meal is the item layout of the meal log table, keyed by
// (user_id, created_at).
type Meal struct {
	UserID    string    `dynamodbav:"user_id"`
	CreatedAt string    `dynamodbav:"created_at"`
	ImageKey  string    `dynamodbav:"image_key"`
	Name      string    `dynamodbav:"meal_name"`
	Nutrients Nutrients `dynamodbav:"nutrients"`
}

func (m *Meal) ToDomain() domain.MealRecord {
	return domain.MealRecord{
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ImageKey:  m.ImageKey,
		Name:      m.Name,
		Nutrients: domain.Nutrients(m.Nutrients),
	}
}

func NewMealFromDomain(m *domain.MealRecord) *Meal {
	return &Meal{
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ImageKey:  m.ImageKey,
		Name:      m.Name,
		Nutrients: Nutrients(m.Nutrients),
	}
}
