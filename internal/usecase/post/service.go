package post

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/snapnutrient/snapnutrient/domain"
)

type Service struct {
	postRepo     domain.PostRepository
	userRepo     domain.UserRepository
	blobs        domain.BlobURLIssuer
	urlCache     domain.SignedURLCache
	profileCache domain.ProfileCache
	profileGroup singleflight.Group
}

var _ domain.PostUsecase = (*Service)(nil)

// NewService will create a new social feed service object
func NewService(p domain.PostRepository, u domain.UserRepository, b domain.BlobURLIssuer, uc domain.SignedURLCache, pc domain.ProfileCache) *Service {
	return &Service{
		postRepo:     p,
		userRepo:     u,
		blobs:        b,
		urlCache:     uc,
		profileCache: pc,
	}
}

func (a *Service) Store(ctx context.Context, p *domain.Post) error {
	if p.AuthorID == "" || p.PhotoID == "" || p.Caption == "" {
		return domain.ErrBadParamInput
	}
	return a.postRepo.Store(ctx, p)
}

func (a *Service) GetByID(ctx context.Context, authorID, photoID string) (res domain.Post, err error) {
	res, err = a.postRepo.GetByID(ctx, authorID, photoID)
	if errors.Is(err, domain.ErrNotFound) {
		// Read paths degrade to empty results rather than erroring.
		return domain.Post{}, nil
	}
	if err != nil {
		return domain.Post{}, err
	}

	hydrated := a.hydrate(ctx, []domain.Post{res})
	return hydrated[0], nil
}

func (a *Service) FetchFeed(ctx context.Context, cursor string, num int64) (res []domain.Post, nextCursor string, err error) {
	res, nextCursor, err = a.postRepo.FetchFeed(ctx, cursor, num)
	if err != nil {
		return nil, "", err
	}

	res = a.hydrate(ctx, res)
	return
}

func (a *Service) ToggleLike(ctx context.Context, authorID, photoID, userID string) (res domain.Post, err error) {
	if userID == "" {
		return res, domain.ErrUnauthorized
	}

	res, err = a.postRepo.ToggleLike(ctx, authorID, photoID, userID)
	if err != nil {
		return domain.Post{}, err
	}

	hydrated := a.hydrate(ctx, []domain.Post{res})
	return hydrated[0], nil
}

func (a *Service) AppendComment(ctx context.Context, authorID, photoID, userID, text string) (res domain.Post, err error) {
	if userID == "" {
		return res, domain.ErrUnauthorized
	}
	if strings.TrimSpace(text) == "" {
		return res, domain.ErrBadParamInput
	}

	res, err = a.postRepo.AppendComment(ctx, authorID, photoID, userID, text)
	if err != nil {
		return domain.Post{}, err
	}

	hydrated := a.hydrate(ctx, []domain.Post{res})
	return hydrated[0], nil
}

// hydrate resolves the photo URL and author display data for every post.
// It never fails: any author or key that cannot be resolved keeps the
// default profile or an empty URL, so one broken collaborator degrades a
// page instead of sinking it.
func (a *Service) hydrate(ctx context.Context, posts []domain.Post) []domain.Post {
	if len(posts) == 0 {
		return posts
	}

	profiles := a.fillAuthorProfiles(ctx, posts)

	keys := make([]string, 0, 2*len(posts))
	seen := make(map[string]bool)
	for i := range posts {
		if !seen[posts[i].PhotoID] {
			keys = append(keys, posts[i].PhotoID)
			seen[posts[i].PhotoID] = true
		}
		if img := profiles[posts[i].AuthorID].ProfileImage; img != "" && !seen[img] {
			keys = append(keys, img)
			seen[img] = true
		}
	}
	urls := a.resolveURLs(ctx, keys)

	for i := range posts {
		profile := profiles[posts[i].AuthorID]
		profile.AvatarURL = domain.DefaultAvatarURL
		if url, ok := urls[profile.ProfileImage]; ok {
			profile.AvatarURL = url
		}
		posts[i].Author = profile
		posts[i].ImageURL = urls[posts[i].PhotoID]
	}
	return posts
}

func (a *Service) fillAuthorProfiles(ctx context.Context, posts []domain.Post) map[string]domain.UserProfile {
	emails := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for i := range posts {
		if !seen[posts[i].AuthorID] {
			emails = append(emails, posts[i].AuthorID)
			seen[posts[i].AuthorID] = true
		}
	}

	profiles := make(map[string]domain.UserProfile, len(emails))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, email := range emails {
		g.Go(func() error {
			profile := a.loadProfile(ctx, email)
			mu.Lock()
			profiles[email] = profile
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return profiles
}

func (a *Service) loadProfile(ctx context.Context, email string) domain.UserProfile {
	if profile, err := a.profileCache.GetProfile(ctx, email); err == nil {
		return profile
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("profile cache get error: %v", err)
	}

	// Collapse concurrent loads of the same author into one store read.
	result, err, _ := a.profileGroup.Do(email, func() (any, error) {
		profile, err := a.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return domain.UserProfile{}, err
		}

		go func(p domain.UserProfile) {
			if err := a.profileCache.SetProfile(context.Background(), p); err != nil {
				logrus.Warnf("failed to set profile cache: %v", err)
			}
		}(profile)
		return profile, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logrus.Warnf("failed to load profile for %s: %v", email, err)
		}
		return domain.UserProfile{Email: email, Name: domain.DefaultDisplayName}
	}
	return result.(domain.UserProfile)
}

func (a *Service) resolveURLs(ctx context.Context, keys []string) map[string]string {
	urls, err := a.urlCache.GetURLs(ctx, keys)
	if err != nil {
		logrus.Warnf("url cache get error: %v", err)
		urls = nil
	}
	if urls == nil {
		urls = make(map[string]string, len(keys))
	}

	missing := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := urls[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return urls
	}

	signed, err := a.blobs.IssueBatchDownloadURLs(ctx, missing)
	if err != nil {
		logrus.Warnf("failed to sign urls: %v", err)
		return urls
	}

	go func(fresh map[string]string) {
		if err := a.urlCache.SetURLs(context.Background(), fresh); err != nil {
			logrus.Warnf("failed to set url cache: %v", err)
		}
	}(signed)

	for key, url := range signed {
		urls[key] = url
	}
	return urls
}
