package domain

import "context"

// Nutrients is the fixed nutrient record attached to a meal. All seven
// fields are required and validated once at the boundary.
type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

// MealRecord is one analyzed meal in a user's log, keyed by
// (UserID, CreatedAt).
type MealRecord struct {
	UserID    string
	CreatedAt string // ISO-8601, doubles as the sort key
	ImageKey  string // Blob store key of the meal photo
	Name      string
	Nutrients Nutrients
}

// MealRepository defines the contract for meal log persistence.
type MealRepository interface {
	Store(ctx context.Context, m *MealRecord) error

	// FetchByDateRange returns the user's meals with CreatedAt in
	// [start, end], newest first. An unknown user yields an empty list.
	FetchByDateRange(ctx context.Context, userID, start, end string) ([]MealRecord, error)

	// Update replaces the name and nutrients of an existing record.
	// Returns ErrNotFound if the record doesn't exist.
	Update(ctx context.Context, m *MealRecord) error

	// Delete removes a record by its compound key.
	Delete(ctx context.Context, userID, createdAt string) error
}

// MealUsecase defines the business logic contract for the meal log.
type MealUsecase interface {
	Store(ctx context.Context, m *MealRecord) error
	FetchByDateRange(ctx context.Context, userID, start, end string) ([]MealRecord, error)
	Update(ctx context.Context, m *MealRecord) error
	Delete(ctx context.Context, userID, createdAt string) error
}
