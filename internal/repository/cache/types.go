package cache

import "time"

// SignedURL is a cached presigned download URL with its own logical expiry.
// The physical cache TTL is kept shorter than the signature validity, but
// the logical check guards against handing out a URL whose signature has
// already lapsed when the two windows drift.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpireAt  time.Time `json:"expire_at"`
	CreatedAt time.Time `json:"created_at"` // kept for debugging
}

// IsExpired checks the logical expiry.
func (s *SignedURL) IsExpired() bool {
	return time.Now().After(s.ExpireAt)
}

// NewSignedURL wraps a freshly signed URL valid for ttl.
func NewSignedURL(url string, ttl time.Duration) *SignedURL {
	now := time.Now()
	return &SignedURL{
		URL:       url,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	}
}
