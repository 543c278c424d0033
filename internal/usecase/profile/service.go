package profile

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/snapnutrient/snapnutrient/domain"
)

type Service struct {
	userRepo     domain.UserRepository
	blobs        domain.BlobURLIssuer
	profileCache domain.ProfileCache
}

var _ domain.ProfileUsecase = (*Service)(nil)

// NewService will create a new user profile service object
func NewService(u domain.UserRepository, b domain.BlobURLIssuer, pc domain.ProfileCache) *Service {
	return &Service{
		userRepo:     u,
		blobs:        b,
		profileCache: pc,
	}
}

func (s *Service) Get(ctx context.Context, email string) (res domain.UserProfile, err error) {
	if email == "" {
		return res, domain.ErrUnauthorized
	}

	res, err = s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// An unregistered caller gets an empty profile, not an error.
		return domain.UserProfile{}, nil
	}
	if err != nil {
		return domain.UserProfile{}, err
	}

	res.AvatarURL = domain.DefaultAvatarURL
	if res.ProfileImage != "" {
		url, err := s.blobs.IssueDownloadURL(ctx, res.ProfileImage)
		if err != nil {
			logrus.Warnf("failed to sign avatar url for %s: %v", email, err)
		} else {
			res.AvatarURL = url
		}
	}
	return res, nil
}

func (s *Service) Register(ctx context.Context, u *domain.UserProfile) error {
	if u.Email == "" || u.Name == "" {
		return domain.ErrBadParamInput
	}
	return s.userRepo.Insert(ctx, u)
}

func (s *Service) Update(ctx context.Context, u *domain.UserProfile) error {
	if u.Email == "" {
		return domain.ErrUnauthorized
	}
	if u.Name == "" {
		return domain.ErrBadParamInput
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	// Keep the hydration cache in step with the store.
	if err := s.profileCache.SetProfile(ctx, *u); err != nil {
		logrus.Warnf("failed to refresh profile cache for %s: %v", u.Email, err)
	}
	return nil
}
