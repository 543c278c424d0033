package response

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

type Meal struct {
	UserID    string    `json:"userId"`
	CreatedAt string    `json:"createdAt"`
	ImageKey  string    `json:"imageKey"`
	Name      string    `json:"mealName"`
	Nutrients Nutrients `json:"nutrients"`
}

func NewMealFromDomain(m *domain.MealRecord) Meal {
	return Meal{
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ImageKey:  m.ImageKey,
		Name:      m.Name,
		Nutrients: Nutrients(m.Nutrients),
	}
}

func NewMealsFromDomain(meals []domain.MealRecord) []Meal {
	res := make([]Meal, 0, len(meals))
	for i := range meals {
		res = append(res, NewMealFromDomain(&meals[i]))
	}
	return res
}

type MealAnalysis struct {
	Name      string    `json:"name"`
	Nutrients Nutrients `json:"nutrients"`
}

func NewMealAnalysisFromDomain(a *domain.MealAnalysis) MealAnalysis {
	return MealAnalysis{
		Name:      a.Name,
		Nutrients: Nutrients(a.Nutrients),
	}
}
