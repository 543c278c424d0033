package s3

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/snapnutrient/snapnutrient/domain"
)

const (
	uploadURLTTL   = time.Hour
	downloadURLTTL = time.Hour
	// Batch URLs live long enough for the client to cache a whole feed
	// session without re-requesting.
	batchURLTTL = 24 * time.Hour
)

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// PresignAPI is the slice of the S3 presign client the issuer needs.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type blobIssuer struct {
	presign PresignAPI
	bucket  string
}

var _ domain.BlobURLIssuer = (*blobIssuer)(nil)

// NewBlobURLIssuer creates the signed URL layer over one bucket.
func NewBlobURLIssuer(presign PresignAPI, bucket string) *blobIssuer {
	return &blobIssuer{presign: presign, bucket: bucket}
}

func (b *blobIssuer) IssueUploadURL(ctx context.Context, fileType, folder string) (res domain.UploadTicket, err error) {
	ext := strings.ToLower(strings.TrimPrefix(fileType, "."))
	if ext == "" || folder == "" || strings.Contains(folder, "/") {
		return res, domain.ErrBadParamInput
	}

	mimeType, ok := mimeTypes[ext]
	if !ok {
		mimeType = "application/octet-stream"
	}

	key := folder + "/" + uuid.NewString() + "." + ext
	req, err := b.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	}, func(o *awss3.PresignOptions) {
		o.Expires = uploadURLTTL
	})
	if err != nil {
		return res, err
	}

	res = domain.UploadTicket{URL: req.URL, Key: key}
	return
}

func (b *blobIssuer) IssueDownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", domain.ErrBadParamInput
	}

	req, err := b.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(o *awss3.PresignOptions) {
		o.Expires = downloadURLTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (b *blobIssuer) IssueBatchDownloadURLs(ctx context.Context, keys []string) (map[string]string, error) {
	valid := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) != "" {
			valid = append(valid, key)
		}
	}
	if len(valid) > domain.MaxBatchURLKeys {
		valid = valid[:domain.MaxBatchURLKeys]
	}

	urls := make(map[string]string, len(valid))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range valid {
		g.Go(func() error {
			req, err := b.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
				Bucket: aws.String(b.bucket),
				Key:    aws.String(key),
			}, func(o *awss3.PresignOptions) {
				o.Expires = batchURLTTL
			})
			if err != nil {
				// One bad key must not sink the whole batch.
				logrus.Warnf("presign failed for key %s: %v", key, err)
				return nil
			}
			mu.Lock()
			urls[key] = req.URL
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
