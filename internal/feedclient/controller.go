package feedclient

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/snapnutrient/snapnutrient/domain"
)

// Controller owns the client-side feed state. All mutation goes through its
// action methods; reads return copies. Like and comment apply optimistically
// under the lock, then reconcile against the server's authoritative post.
//
// The lock is never held across a network call.
type Controller struct {
	api      PostAPI
	userID   string
	pageSize int64

	mu          sync.Mutex
	posts       []domain.Post
	cursor      string
	hasMore     bool
	loadingMore bool
	pendingLike map[string]bool
	activeKey   string
}

func NewController(api PostAPI, userID string, pageSize int64) *Controller {
	return &Controller{
		api:         api,
		userID:      userID,
		pageSize:    pageSize,
		hasMore:     true,
		pendingLike: make(map[string]bool),
	}
}

// Posts returns a snapshot of the current feed.
func (c *Controller) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// SetActivePost marks the post the user has open in a detail view. The
// mirror returned by ActivePost tracks every reconciliation of that post.
func (c *Controller) SetActivePost(authorID, photoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeKey = authorID + "/" + photoID
}

// ActivePost returns the current copy of the active post, or false when no
// post is open or it fell out of the feed.
func (c *Controller) ActivePost() (domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeKey == "" {
		return domain.Post{}, false
	}
	if i := c.indexOf(c.activeKey); i >= 0 {
		return c.posts[i], true
	}
	return domain.Post{}, false
}

// Refresh replaces the feed with the first page.
func (c *Controller) Refresh(ctx context.Context) error {
	page, err := c.api.FetchPage(ctx, "", c.pageSize)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = page.Posts
	c.cursor = page.Cursor
	c.hasMore = page.Cursor != "" && int64(len(page.Posts)) >= c.pageSize
	return nil
}

// LoadMore appends the next page. Calls are suppressed while a fetch is in
// flight or the feed is exhausted.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loadingMore || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.loadingMore = true
	cursor := c.cursor
	c.mu.Unlock()

	page, err := c.api.FetchPage(ctx, cursor, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false
	if err != nil {
		return err
	}
	c.posts = append(c.posts, page.Posts...)
	c.cursor = page.Cursor
	c.hasMore = page.Cursor != "" && int64(len(page.Posts)) >= c.pageSize
	return nil
}

// ToggleLike flips the signed-in user's like on a post. The flip shows
// immediately; on success the server's counts win, on failure the exact
// local delta is inverted. A second click while the first is pending is
// ignored.
func (c *Controller) ToggleLike(ctx context.Context, authorID, photoID string) error {
	key := authorID + "/" + photoID

	c.mu.Lock()
	if c.pendingLike[key] {
		c.mu.Unlock()
		return nil
	}
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return domain.ErrNotFound
	}
	c.pendingLike[key] = true
	wasLiked := c.posts[i].LikedByUser(c.userID)
	origLikedBy := c.posts[i].LikedBy
	origCount := c.posts[i].LikeCount
	c.applyLike(i, !wasLiked)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pendingLike, key)
		c.mu.Unlock()
	}()

	updated, err := c.api.ToggleLike(ctx, authorID, photoID)

	c.mu.Lock()
	defer c.mu.Unlock()
	i = c.indexOf(key)
	if i < 0 {
		return err
	}
	if err != nil {
		// Restore the exact pre-click state.
		c.posts[i].LikedBy = origLikedBy
		c.posts[i].LikeCount = origCount
		return err
	}
	c.posts[i].LikeCount = updated.LikeCount
	c.posts[i].LikedBy = updated.LikedBy
	return nil
}

// AddComment appends the user's comment optimistically. On success the
// server's comment list wins; on failure the whole first page is re-fetched
// rather than surgically undoing the append.
func (c *Controller) AddComment(ctx context.Context, authorID, photoID, text string) error {
	key := authorID + "/" + photoID

	c.mu.Lock()
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return domain.ErrNotFound
	}
	c.posts[i].Comments = append(c.posts[i].Comments, domain.Comment{
		Author: c.userID,
		Text:   text,
	})
	c.mu.Unlock()

	updated, err := c.api.AddComment(ctx, authorID, photoID, text)
	if err != nil {
		if rerr := c.Refresh(ctx); rerr != nil {
			logrus.Warnf("refresh after failed comment: %v", rerr)
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i = c.indexOf(key); i >= 0 {
		c.posts[i].Comments = updated.Comments
	}
	return nil
}

// indexOf returns the position of the post with the given compound key.
// Callers hold the lock.
func (c *Controller) indexOf(key string) int {
	for i := range c.posts {
		if c.posts[i].Key() == key {
			return i
		}
	}
	return -1
}

// applyLike sets the user's membership in LikedBy and moves LikeCount by
// the matching delta. Callers hold the lock.
func (c *Controller) applyLike(i int, liked bool) {
	p := &c.posts[i]
	if liked {
		if !p.LikedByUser(c.userID) {
			p.LikedBy = append(p.LikedBy, c.userID)
			p.LikeCount++
		}
		return
	}
	if !p.LikedByUser(c.userID) {
		return
	}
	// Copy instead of shifting in place so snapshots handed out earlier
	// keep their backing array intact.
	out := make([]string, 0, len(p.LikedBy))
	for _, u := range p.LikedBy {
		if u != c.userID {
			out = append(out, u)
		}
	}
	p.LikedBy = out
	p.LikeCount--
}
