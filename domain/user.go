package domain

import "context"

const (
	// DefaultDisplayName is used when an author's profile cannot be resolved.
	DefaultDisplayName = "User"
	// DefaultAvatarURL is used when an author has no avatar or the signed
	// URL cannot be issued.
	DefaultAvatarURL = "/images/default-profile-pic.jpg"
)

// UserProfile represents a user's display data. The identity itself (the
// email) comes from the session collaborator; this is only what the feed
// needs to render an author.
type UserProfile struct {
	Email        string // Unique identifier
	Name         string // Display name
	ProfileImage string // Blob store key of the avatar, may be empty
	AvatarURL    string // Signed URL, filled during hydration only
}

// UserRepository defines the contract for user profile persistence.
type UserRepository interface {
	// GetByEmail retrieves a profile by email.
	// Returns ErrNotFound if the profile doesn't exist.
	GetByEmail(ctx context.Context, email string) (UserProfile, error)

	// Insert creates a new profile.
	// Returns ErrConflict if the email is already registered.
	Insert(ctx context.Context, u *UserProfile) error

	// Update modifies an existing profile's name and avatar key.
	Update(ctx context.Context, u *UserProfile) error
}

// ProfileUsecase defines the business logic contract for user profiles.
type ProfileUsecase interface {
	// Get returns the profile with the avatar resolved to a signed URL.
	// A missing profile yields the zero UserProfile, not an error.
	Get(ctx context.Context, email string) (UserProfile, error)

	Register(ctx context.Context, u *UserProfile) error
	Update(ctx context.Context, u *UserProfile) error
}

// ProfileCache caches resolved display profiles so feed hydration does not
// hit the store once per author per page.
type ProfileCache interface {
	GetProfile(ctx context.Context, email string) (UserProfile, error)
	SetProfile(ctx context.Context, p UserProfile) error
}
