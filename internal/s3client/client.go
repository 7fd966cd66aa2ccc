package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appConfig "usagereports/config"
	"usagereports/internal/errs"
	"usagereports/internal/models"
	"usagereports/internal/profile"
	"usagereports/internal/storage"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ storage.ObjectStore = (*Client)(nil)

type Client struct {
	s3Client s3API
	location storage.Location
	logger   *zap.Logger
}

func New(ctx context.Context, cfg *appConfig.Config, p *profile.Profile, logger *zap.Logger) (*Client, error) {
	location := storage.Location{
		Namespace: cfg.Namespace,
		Bucket:    cfg.BucketFor(p.Tenancy),
		Region:    p.Region,
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(p.Region),
	}
	if p.HasStaticCredentials() {
		configOpts = append(configOpts, config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     p.AccessKeyID,
				SecretAccessKey: p.SecretAccessKey,
			},
		}))
	} else {
		configOpts = append(configOpts, config.WithSharedConfigProfile(p.Name))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, "load AWS SDK config", err)
	}

	endpoint := cfg.ApiURL
	if endpoint == "" {
		endpoint = location.Endpoint()
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	logger.Debug("created S3 compatibility client",
		zap.String("endpoint", endpoint),
		zap.String("namespace", location.Namespace),
		zap.String("bucket", location.Bucket),
		zap.Bool("static_credentials", p.HasStaticCredentials()),
	)

	return newWithAPI(s3Client, location, logger), nil
}

func newWithAPI(api s3API, location storage.Location, logger *zap.Logger) *Client {
	return &Client{
		s3Client: api,
		location: location,
		logger:   logger,
	}
}

func (c *Client) Location() storage.Location {
	return c.location
}

// List issues a single ListObjectsV2 call. A truncated page is logged and the rest ignored.
func (c *Client) List(ctx context.Context, prefix string, fields ...storage.Field) ([]models.RemoteObject, error) {
	c.logger.Debug("listing objects",
		zap.String("bucket", c.location.Bucket),
		zap.String("prefix", prefix),
		zap.String("fields", storage.FieldsParam(fields)),
	)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.location.Bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	page, err := c.s3Client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, errs.Wrap(errs.CodeList, "list objects", fmt.Errorf("bucket %s: %w", c.location.Bucket, err))
	}

	if aws.ToBool(page.IsTruncated) {
		c.logger.Warn("listing truncated, only the first page is processed",
			zap.Int("returned", len(page.Contents)),
			zap.String("next_token", aws.ToString(page.NextContinuationToken)),
		)
	}

	objects := make([]models.RemoteObject, 0, len(page.Contents))
	for _, obj := range page.Contents {
		remote := models.RemoteObject{
			Name: aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			remote.TimeCreated = *obj.LastModified
		}
		objects = append(objects, storage.Project(remote, fields))
	}

	return objects, nil
}

func (c *Client) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.location.Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, errs.Wrap(errs.CodeDownload, "get object", fmt.Errorf("%s: %w", name, err))
	}
	if out.Body == nil {
		return nil, errs.Wrap(errs.CodeDownload, "get object", errors.New(name+": empty response body"))
	}
	return out.Body, nil
}
