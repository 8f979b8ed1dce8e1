package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"colselect-go/config"
)

var ErrTooLarge = func(key string, size, limit int64) error {
	return fmt.Errorf("object %s is %s, over the %s download limit", key, humanize.Bytes(uint64(size)), humanize.Bytes(uint64(limit)))
}

// S3API is the part of the S3 client the opener needs.
type S3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds a client from the s3 section of cfg. A custom endpoint
// implies path style addressing.
func NewS3Client(cfg *config.Config) *s3.Client {
	opts := s3.Options{
		Region:      cfg.S3.Region,
		Credentials: aws.AnonymousCredentials{},
	}
	if cfg.S3.AccessKey != "" {
		key, secret := cfg.S3.AccessKey, cfg.S3.SecretKey
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: key, SecretAccessKey: secret, Source: "colselect config"}, nil
		})
	}
	if ep := cfg.S3.Endpoint; ep != "" {
		if !strings.Contains(ep, "://") {
			scheme := "https://"
			if !cfg.S3.UseSSL {
				scheme = "http://"
			}
			ep = scheme + ep
		}
		opts.BaseEndpoint = aws.String(ep)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// ParseS3URI splits s3://bucket/key. An empty bucket falls back to fallback.
func ParseS3URI(uri, fallback string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		bucket = fallback
	}
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri %q needs a bucket and a key", uri)
	}
	return bucket, key, nil
}

// download buffers a whole object after checking its size against limit.
func download(ctx context.Context, client S3API, bucket, key string, limit int64) (*bytes.Reader, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}
	if size := aws.ToInt64(head.ContentLength); size > limit {
		return nil, ErrTooLarge(key, size, limit)
	}

	obj, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer obj.Body.Close()

	// one extra byte tells a body that grew past the limit apart from one
	// that fits exactly
	data, err := io.ReadAll(io.LimitReader(obj.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge(key, int64(len(data)), limit)
	}
	return bytes.NewReader(data), nil
}
