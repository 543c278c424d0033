package request

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

type Profile struct {
	Name         string `json:"name" binding:"required"`
	ProfileImage string `json:"profileImage"`
}

func (p *Profile) ToDomain(email string) domain.UserProfile {
	return domain.UserProfile{
		Email:        email,
		Name:         p.Name,
		ProfileImage: p.ProfileImage,
	}
}
