package request

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

func (n Nutrients) ToDomain() domain.Nutrients {
	return domain.Nutrients(n)
}

// Meal creates a new log entry. CreatedAt is optional; the store stamps the
// current time when it is empty.
type Meal struct {
	CreatedAt string    `json:"createdAt"`
	ImageKey  string    `json:"imageKey" binding:"required"`
	Name      string    `json:"mealName" binding:"required"`
	Nutrients Nutrients `json:"nutrients" binding:"required"`
}

func (m *Meal) ToDomain(userID string) domain.MealRecord {
	return domain.MealRecord{
		UserID:    userID,
		CreatedAt: m.CreatedAt,
		Name:      m.Name,
		ImageKey:  m.ImageKey,
		Nutrients: m.Nutrients.ToDomain(),
	}
}

// MealUpdate replaces the name and nutrients of an existing entry.
type MealUpdate struct {
	CreatedAt string    `json:"createdAt" binding:"required"`
	Name      string    `json:"mealName" binding:"required"`
	Nutrients Nutrients `json:"nutrients" binding:"required"`
}

func (m *MealUpdate) ToDomain(userID string) domain.MealRecord {
	return domain.MealRecord{
		UserID:    userID,
		CreatedAt: m.CreatedAt,
		Name:      m.Name,
		Nutrients: m.Nutrients.ToDomain(),
	}
}
