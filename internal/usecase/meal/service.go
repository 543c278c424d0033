package meal

import (
	"context"
	"math"

	"github.com/snapnutrient/snapnutrient/domain"
)

type Service struct {
	mealRepo domain.MealRepository
}

var _ domain.MealUsecase = (*Service)(nil)

// NewService will create a new meal log service object
func NewService(m domain.MealRepository) *Service {
	return &Service{
		mealRepo: m,
	}
}

func validNutrients(n domain.Nutrients) bool {
	for _, v := range []float64{n.Calories, n.Protein, n.Carbohydrates, n.Fat, n.Fiber, n.Sugar, n.Sodium} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

func (s *Service) Store(ctx context.Context, m *domain.MealRecord) error {
	if m.UserID == "" || m.ImageKey == "" || m.Name == "" || !validNutrients(m.Nutrients) {
		return domain.ErrBadParamInput
	}
	return s.mealRepo.Store(ctx, m)
}

func (s *Service) FetchByDateRange(ctx context.Context, userID, start, end string) ([]domain.MealRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if start == "" || end == "" || start > end {
		return nil, domain.ErrBadParamInput
	}
	return s.mealRepo.FetchByDateRange(ctx, userID, start, end)
}

func (s *Service) Update(ctx context.Context, m *domain.MealRecord) error {
	if m.UserID == "" || m.CreatedAt == "" || m.Name == "" || !validNutrients(m.Nutrients) {
		return domain.ErrBadParamInput
	}
	return s.mealRepo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, userID, createdAt string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if createdAt == "" {
		return domain.ErrBadParamInput
	}
	return s.mealRepo.Delete(ctx, userID, createdAt)
}
