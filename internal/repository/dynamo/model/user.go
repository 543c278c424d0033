package model

import (
	"github.com/snapnutrient/snapnutrient/domain"
)

// User is the item layout of the users table, keyed by email.
type User struct {
	Email        string `dynamodbav:"email"`
	Name         string `dynamodbav:"name"`
	ProfileImage string `dynamodbav:"profile_image,omitempty"`
}

func (m *User) ToDomain() domain.UserProfile {
	return domain.UserProfile{
		Email:        m.Email,
		Name:         m.Name,
		ProfileImage: m.ProfileImage,
	}
}

func NewUserFromDomain(u *domain.UserProfile) *User {
	return &User{
		Email:        u.Email,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}
