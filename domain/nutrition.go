package domain

import "context"

// NutrientKeys are the seven advisory keys every recommendation response
// carries, in display order.
var NutrientKeys = []string{
	"calories", "protein", "carbohydrates", "fat", "fiber", "sugar", "sodium",
}

// DefaultAdvisory is substituted for any key the assistant left out or
// returned malformed.
const DefaultAdvisory = "No data available."

// MealAnalysis is the assistant's structured reading of a meal photo.
type MealAnalysis struct {
	Name      string    `json:"name"`
	Nutrients Nutrients `json:"nutrients"`
}

// Recommendations maps each nutrient key to a short advisory string.
type Recommendations struct {
	Recommendations map[string]string `json:"recommendations"`
}

// NutritionAssistant is the external AI collaborator. Both calls look
// synchronous to the caller but are implemented by polling an asynchronous
// job until a terminal status; a failed run surfaces as ErrUpstream, which
// the caller treats as retryable by the user, not a crash.
type NutritionAssistant interface {
	AnalyzeImage(ctx context.Context, image []byte) (MealAnalysis, error)
	Recommend(ctx context.Context, history []Nutrients) (Recommendations, error)
}

// NutritionUsecase validates input once at the boundary and shields callers
// from malformed assistant output.
type NutritionUsecase interface {
	AnalyzeImage(ctx context.Context, image []byte) (MealAnalysis, error)

	// Recommend always returns all seven keys: missing or malformed
	// advisories are replaced with DefaultAdvisory rather than failing
	// the whole request.
	Recommend(ctx context.Context, history []Nutrients) (Recommendations, error)
}
