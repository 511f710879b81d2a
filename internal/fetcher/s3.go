package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidS3URL is returned for s3:// URLs without a bucket or key.
var ErrInvalidS3URL = errors.New("fetcher: invalid s3 url")

// S3Config holds connection settings for S3-compatible storage.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// objectGetter is the subset of the S3 client used for reads.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key objects.
type S3Fetcher struct {
	client objectGetter
}

// NewS3Fetcher creates an S3Fetcher from static configuration.
// When AccessKey is empty the client is anonymous, which works for public
// buckets.
func NewS3Fetcher(cfg S3Config) *S3Fetcher {
	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			if cfg.AccessKey != "" {
				o.Credentials = credentials.NewStaticCredentialsProvider(
					cfg.AccessKey,
					cfg.SecretKey,
					"",
				)
			} else {
				o.Credentials = aws.AnonymousCredentials{}
			}
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Fetcher{client: s3.New(s3.Options{}, opts...)}
}

// Fetch implements Fetcher.
func (s *S3Fetcher) Fetch(ctx context.Context, source string, w io.Writer) error {
	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get s3 object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read s3 object: %w", err)
	}
	return nil
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidS3URL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: scheme %q", ErrInvalidS3URL, u.Scheme)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URL, source)
	}
	return bucket, key, nil
}
