package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"housepoints/internal/domain"
)

// S3Store keeps certificate artifacts in an S3-compatible bucket under a
// fixed key prefix. Refs are the object keys.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Options configures an S3-compatible endpoint with static credentials
// and path-style addressing.
type S3Options struct {
	Endpoint string
	Region   string
	KeyID    string
	Secret   string
	Bucket   string
}

// NewS3Store creates an artifact store backed by an S3-compatible bucket.
func NewS3Store(opts S3Options) *S3Store {
	client := s3.New(s3.Options{
		Region: opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.KeyID, opts.Secret, "",
		),
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s", opts.Endpoint)),
		UsePathStyle: true,
	})
	return &S3Store{client: client, bucket: opts.Bucket, prefix: "certificates/"}
}

func (s *S3Store) Store(ctx context.Context, data []byte) (string, error) {
	ref := s.prefix + domain.NewID()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("put artifact %q: %w", ref, err)
	}
	return ref, nil
}

func (s *S3Store) Fetch(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("get artifact %q: %w", ref, err)
	}
	defer out.Body.Close() //nolint:errcheck
	return io.ReadAll(out.Body)
}
