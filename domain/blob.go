package domain

import "context"

// UploadTicket is a single-use presigned upload slot: the client PUTs the
// image bytes to URL and later refers to the object by Key.
type UploadTicket struct {
	URL string
	Key string
}

// BlobURLIssuer generates short-lived signed URLs for the blob store.
type BlobURLIssuer interface {
	// IssueUploadURL returns a presigned upload URL for a fresh object key
	// under the given folder. fileType is the file extension ("jpg", "png"…).
	IssueUploadURL(ctx context.Context, fileType, folder string) (UploadTicket, error)

	// IssueDownloadURL returns a time-limited signed read URL for key.
	IssueDownloadURL(ctx context.Context, key string) (string, error)

	// IssueBatchDownloadURLs resolves up to MaxBatchURLKeys keys to signed
	// read URLs with a long validity window. Keys that fail to sign are
	// left out of the result; the call itself only fails on invalid input.
	IssueBatchDownloadURLs(ctx context.Context, keys []string) (map[string]string, error)
}

// MaxBatchURLKeys caps one batch signing request.
const MaxBatchURLKeys = 100

// SignedURLCache caches long-validity download URLs so hydrating a feed page
// does not re-sign the same keys over and over.
type SignedURLCache interface {
	GetURLs(ctx context.Context, keys []string) (map[string]string, error)
	SetURLs(ctx context.Context, urls map[string]string) error
}
