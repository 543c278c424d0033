package request

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

// AnalyzeImage carries the raw meal photo as base64, matching what browser
// clients can produce from a file input without a multipart round trip.
type AnalyzeImage struct {
	Image string `json:"image" binding:"required"`
}

type Recommend struct {
	History []Nutrients `json:"history" binding:"required,min=1"`
}

func (r *Recommend) ToDomain() []domain.Nutrients {
	history := make([]domain.Nutrients, 0, len(r.History))
	for _, n := range r.History {
		history = append(history, n.ToDomain())
	}
	return history
}
