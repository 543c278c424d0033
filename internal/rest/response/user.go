package response

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

type Profile struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
}

func NewProfileFromDomain(u *domain.UserProfile) Profile {
	return Profile{
		Email:        u.Email,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		AvatarURL:    u.AvatarURL,
	}
}
