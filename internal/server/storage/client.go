package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	sc "github.com/dmitrijs2005/filevault/internal/server/config"
)

// Seams for tests: the AWS SDK surface is reached only through these
// variables so the signing and store paths can be exercised without a
// network.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
	newListObjectsV2Paginator = func(c *s3.Client, in *s3.ListObjectsV2Input) listPager {
		return s3.NewListObjectsV2Paginator(c, in)
	}
)

type listPager interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Client is the long-lived store handle owned by the application. It is
// constructed once at startup and injected into every component that talks
// to the store; signing is a local HMAC computation, so the presign client
// is safe for concurrent use across requests.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
	timeout time.Duration
	logger  logging.Logger
}

// New builds the store client from configuration. It fails with
// common.ErrConfiguration when no bucket is configured; the process is not
// usable without one.
func New(ctx context.Context, cfg *sc.Config, logger logging.Logger) (*Client, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is not set", common.ErrConfiguration)
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &Client{
		s3:      client,
		presign: newS3PresignClient(client),
		bucket:  cfg.S3Bucket,
		timeout: cfg.StoreCallTimeout,
		logger:  logger.With("module", "storage"),
	}, nil
}

func (c *Client) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*Capability, error) {
	if c.bucket == "" {
		return nil, fmt.Errorf("%w: bucket is not set", common.ErrConfiguration)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", common.ErrValidation)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ttl = ClampTTL(ttl, MinPresignTTL, MaxPresignTTL)

	issuedAt := time.Now()
	req, err := presignPutObject(c.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		c.logger.Error(ctx, "presign put failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: presign put for %q: %v", common.ErrStoreOperation, key, err)
	}

	return &Capability{
		URL:       req.URL,
		Method:    http.MethodPut,
		Key:       key,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}, nil
}

func (c *Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (*Capability, error) {
	if c.bucket == "" {
		return nil, fmt.Errorf("%w: bucket is not set", common.ErrConfiguration)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", common.ErrValidation)
	}
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}
	ttl = ClampTTL(ttl, MinPresignTTL, MaxPresignTTL)

	issuedAt := time.Now()
	req, err := presignGetObject(c.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		c.logger.Error(ctx, "presign get failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: presign get for %q: %v", common.ErrStoreOperation, key, err)
	}

	return &Capability{
		URL:       req.URL,
		Method:    http.MethodGet,
		Key:       key,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}, nil
}

// Delete removes the object server-side. The store reports success for
// missing keys, and a NoSuchKey answer is treated as success too, so the
// operation is idempotent.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", common.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := deleteObject(c.s3, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil
		}
		c.logger.Error(ctx, "delete failed", "key", key, "error", err)
		return fmt.Errorf("%w: delete %q: %v", common.ErrStoreOperation, key, err)
	}

	c.logger.Info(ctx, "deleted object", "key", key)
	return nil
}

func (c *Client) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", common.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := headObject(c.s3, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %q", common.ErrNotFound, key)
		}
		c.logger.Error(ctx, "head failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: head %q: %v", common.ErrStoreOperation, key, err)
	}

	return &ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// List walks every page of the listing. Each page fetch carries its own
// store timeout; a failed page surfaces as a store error rather than a
// truncated (or empty) catalog.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty prefix", common.ErrValidation)
	}

	paginator := newListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	objects := make([]ObjectInfo, 0)
	for paginator.HasMorePages() {
		pageCtx, cancel := context.WithTimeout(ctx, c.timeout)
		page, err := paginator.NextPage(pageCtx)
		cancel()
		if err != nil {
			c.logger.Error(ctx, "list failed", "prefix", prefix, "error", err)
			return nil, fmt.Errorf("%w: list %q: %v", common.ErrStoreOperation, prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}
