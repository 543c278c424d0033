package nutrition

import (
	"context"
	"strings"

	"github.com/snapnutrient/snapnutrient/domain"
)

// maxImageBytes bounds what gets forwarded to the assistant.
const maxImageBytes = 8 << 20

type Service struct {
	assistant domain.NutritionAssistant
}

var _ domain.NutritionUsecase = (*Service)(nil)

// NewService will create a new nutrition analysis service object
func NewService(assistant domain.NutritionAssistant) *Service {
	return &Service{
		assistant: assistant,
	}
}

func (s *Service) AnalyzeImage(ctx context.Context, image []byte) (res domain.MealAnalysis, err error) {
	if len(image) == 0 || len(image) > maxImageBytes {
		return res, domain.ErrBadParamInput
	}

	res, err = s.assistant.AnalyzeImage(ctx, image)
	if err != nil {
		return domain.MealAnalysis{}, err
	}
	if res.Name == "" {
		return domain.MealAnalysis{}, domain.ErrUpstream
	}
	return res, nil
}

func (s *Service) Recommend(ctx context.Context, history []domain.Nutrients) (res domain.Recommendations, err error) {
	if len(history) == 0 {
		return res, domain.ErrBadParamInput
	}

	res, err = s.assistant.Recommend(ctx, history)
	if err != nil {
		return domain.Recommendations{}, err
	}

	// The response always carries exactly the seven advisory keys; anything
	// the assistant dropped or garbled becomes the default advisory, extra
	// keys are discarded.
	filled := make(map[string]string, len(domain.NutrientKeys))
	for _, key := range domain.NutrientKeys {
		advisory := res.Recommendations[key]
		if strings.TrimSpace(advisory) == "" {
			advisory = domain.DefaultAdvisory
		}
		filled[key] = advisory
	}
	return domain.Recommendations{Recommendations: filled}, nil
}
