package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shopshap/shopshap/app/configs"
)

// ObjectStorage holds product image blobs in an S3-compatible public bucket.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	DeleteByURL(ctx context.Context, publicURL string) error
	PublicURL(key string) string
}

type S3StorageService struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	publicBase string
}

func NewS3StorageService(env configs.ENV) (*S3StorageService, error) {
	if env.StorageBucket == "" {
		return nil, errors.New("STORAGE_BUCKET is required")
	}
	if env.StorageAccessKey == "" || env.StorageSecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	endpoint := env.StorageEndpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	region := env.StorageRegion
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.StorageAccessKey,
			env.StorageSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicBase := strings.TrimRight(env.StoragePublicURL, "/")
	if publicBase == "" && endpoint != "" {
		publicBase = endpoint + "/" + env.StorageBucket
	}
	if publicBase == "" {
		return nil, errors.New("STORAGE_PUBLIC_URL or STORAGE_ENDPOINT is required to build public image URLs")
	}

	return &S3StorageService{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucket:     env.StorageBucket,
		publicBase: publicBase,
	}, nil
}

// EnsureBucket creates the bucket when missing and attaches a public-read
// policy. Run once at provisioning time (init-storage command), not per
// upload.
func (s *S3StorageService) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return s.applyPublicReadPolicy(ctx)
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	log.Printf("Creating storage bucket %s", s.bucket)
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &alreadyOwned) {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return s.applyPublicReadPolicy(ctx)
}

func (s *S3StorageService) applyPublicReadPolicy(ctx context.Context) error {
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Sid": "PublicRead",
			"Effect": "Allow",
			"Principal": "*",
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, s.bucket)

	_, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("failed to apply public-read policy: %w", err)
	}
	return nil
}

// Upload streams a blob to the bucket and returns its public URL after
// confirming the object is actually publicly readable. An upload whose HEAD
// check fails is treated as a failure: the product row must never point at a
// URL shoppers cannot load.
func (s *S3StorageService) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	publicURL := s.PublicURL(key)
	if err := s.checkPublicRead(ctx, publicURL); err != nil {
		return "", fmt.Errorf("uploaded object is not publicly readable: %w", err)
	}

	return publicURL, nil
}

func (s *S3StorageService) checkPublicRead(ctx context.Context, publicURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, publicURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HEAD request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform HEAD request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HEAD %s returned status %d", publicURL, resp.StatusCode)
	}
	return nil
}

func (s *S3StorageService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteByURL removes the blob behind a stored public URL. URLs from other
// origins are ignored so external image links never trigger deletes.
func (s *S3StorageService) DeleteByURL(ctx context.Context, publicURL string) error {
	if publicURL == "" || s.publicBase == "" {
		return nil
	}
	if !strings.HasPrefix(publicURL, s.publicBase+"/") {
		return nil
	}
	key := strings.TrimPrefix(publicURL, s.publicBase+"/")
	return s.DeleteObject(ctx, key)
}

func (s *S3StorageService) PublicURL(key string) string {
	return s.publicBase + "/" + key
}
