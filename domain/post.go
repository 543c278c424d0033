package domain

import (
	"context"
)

// FeedPartition is the fixed partition value shared by every post so the
// whole feed can be read from one time-ordered secondary index.
const FeedPartition = "GLOBAL"

// Comment is a single comment on a post. The comments list on a post is
// append-only; insertion order is display order.
type Comment struct {
	Author string `json:"user"`
	Text   string `json:"text"`
}

// Post is representing the social post data struct.
// A post is identified by the compound key (AuthorID, PhotoID): PhotoID
// doubles as the per-post discriminator since one author owns many posts.
type Post struct {
	AuthorID  string    // Partition key: the posting user's identifier
	PhotoID   string    // Sort key: blob store key of the photo
	Caption   string    // Post caption
	LikeCount int64     // Derived counter, kept equal to len(LikedBy)
	LikedBy   []string  // Users currently liking the post; source of truth for membership
	Comments  []Comment // Append-only, in insertion order
	PostedAt  string    // ISO-8601, set once at creation
	Author    UserProfile // Display data, filled during hydration only
	ImageURL  string      // Signed photo URL, filled during hydration only
}

// Key returns the compound post key in a single comparable form.
func (p *Post) Key() string {
	return p.AuthorID + "/" + p.PhotoID
}

// LikedByUser reports whether userID is currently a member of LikedBy.
func (p *Post) LikedByUser(userID string) bool {
	for _, u := range p.LikedBy {
		if u == userID {
			return true
		}
	}
	return false
}

// PostRepository defines the contract for post persistence.
type PostRepository interface {
	// Store creates a new post. Writing the same (AuthorID, PhotoID) twice
	// overwrites the earlier item; there is no dedup.
	Store(ctx context.Context, p *Post) error

	// GetByID retrieves a single post by its compound key.
	// Returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, authorID, photoID string) (Post, error)

	// FetchFeed retrieves a page of the global feed, newest first.
	// cursor: opaque resume token from a previous page, or empty string for
	// the first page. Returns the posts, the next cursor (empty when the
	// feed is exhausted) and error if any.
	FetchFeed(ctx context.Context, cursor string, num int64) ([]Post, string, error)

	// ToggleLike flips userID's membership in the post's LikedBy set and
	// adjusts LikeCount by ±1 in one conditional update. Returns the full
	// updated post.
	//
	// Membership is read first, then written: concurrent toggles by the
	// same user inside that window can double-apply. Toggles by different
	// users are safe because set add/remove is idempotent on membership and
	// the counter deltas commute.
	ToggleLike(ctx context.Context, authorID, photoID, userID string) (Post, error)

	// AppendComment appends {userID, text} to the post's comment list via
	// an atomic server-side list append and returns the full updated post.
	AppendComment(ctx context.Context, authorID, photoID, userID, text string) (Post, error)

	// Delete removes a post by its compound key.
	Delete(ctx context.Context, authorID, photoID string) error
}

// PostUsecase is the business logic contract for the social feed.
type PostUsecase interface {
	Store(ctx context.Context, p *Post) error

	// GetByID returns the zero Post (not an error) when absent; read paths
	// degrade to empty results.
	GetByID(ctx context.Context, authorID, photoID string) (Post, error)

	// FetchFeed returns a hydrated feed page: each post carries a resolved
	// image URL and author display data. Enrichment failures degrade to
	// defaults, they never fail the page.
	FetchFeed(ctx context.Context, cursor string, num int64) ([]Post, string, error)

	ToggleLike(ctx context.Context, authorID, photoID, userID string) (Post, error)
	AppendComment(ctx context.Context, authorID, photoID, userID, text string) (Post, error)
}
