package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"
)

const (
	// Parallelism for prefix copy/delete fan-out.
	s3Concurrency = 8
	// DeleteObjects accepts at most 1000 keys per call.
	s3DeleteBatch = 1000
)

// S3 maps logical paths to object keys under a root prefix in a bucket.
// Directories are implicit: MkdirAll is a no-op, RenameDir is a prefix
// copy+delete, RemoveAll is a batched prefix delete.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewR2 builds an adapter against a Cloudflare R2 bucket using static
// credentials and the account-scoped endpoint.
func NewR2(accessKey, secretKey, accountID, bucket, region, prefix string) *S3 {
	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// key maps a logical path to its object key.
func (s *S3) key(p string) string {
	return path.Join(s.prefix, p)
}

// copySource builds the CopySource value for CopyObject. The SDK sends it
// verbatim, so the key's segments must be percent-encoded here; slashes
// stay literal.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func (s *S3) Write(ctx context.Context, p string, r io.Reader) (int64, error) {
	// Buffer so the SDK gets a seekable body with a known length.
	// Uploads are size-capped before they reach the adapter.
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return 0, err
	}
	size := int64(buf.Len())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (s *S3) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3) Remove(ctx context.Context, p string) error {
	exists, err := s.Exists(ctx, p)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotExist
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	return err
}

func (s *S3) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3) MkdirAll(_ context.Context, _ string) error {
	// Prefixes exist implicitly once an object is written under them.
	return nil
}

func (s *S3) RenameDir(ctx context.Context, oldPath, newPath string) error {
	oldPrefix := s.key(oldPath) + "/"
	newPrefix := s.key(newPath) + "/"

	keys, err := s.listKeys(ctx, oldPrefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrNotExist
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s3Concurrency)
	for _, key := range keys {
		g.Go(func() error {
			_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
				Bucket:     aws.String(s.bucket),
				CopySource: aws.String(copySource(s.bucket, key)),
				Key:        aws.String(newPrefix + key[len(oldPrefix):]),
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return s.deleteKeys(ctx, keys)
}

func (s *S3) RemoveAll(ctx context.Context, p string) error {
	keys, err := s.listKeys(ctx, s.key(p)+"/")
	if err != nil {
		return err
	}
	return s.deleteKeys(ctx, keys)
}

func (s *S3) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (s *S3) deleteKeys(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += s3DeleteBatch {
		end := min(start+s3DeleteBatch, len(keys))
		batch := make([]s3types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			batch = append(batch, s3types.ObjectIdentifier{Key: aws.String(key)})
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3types.Delete{Objects: batch, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
