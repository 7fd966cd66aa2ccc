// Package minioclient is the minio-go backed object store.
package minioclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	appConfig "usagereports/config"
	"usagereports/internal/errs"
	"usagereports/internal/models"
	"usagereports/internal/profile"
	"usagereports/internal/storage"
)

var _ storage.ObjectStore = (*Client)(nil)

type Client struct {
	mc       *minio.Client
	location storage.Location
	logger   *zap.Logger
}

func New(cfg *appConfig.Config, p *profile.Profile, logger *zap.Logger) (*Client, error) {
	if !p.HasStaticCredentials() {
		return nil, errs.Wrap(errs.CodeConfiguration, "create minio client",
			fmt.Errorf("profile %q needs access_key_id and secret_access_key for the minio backend", p.Name))
	}

	location := storage.Location{
		Namespace: cfg.Namespace,
		Bucket:    cfg.BucketFor(p.Tenancy),
		Region:    p.Region,
	}

	endpoint := cfg.ApiURL
	if endpoint == "" {
		endpoint = location.Endpoint()
	}
	host, secure := normalizeEndpoint(endpoint, true)

	mc, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(p.AccessKeyID, p.SecretAccessKey, ""),
		Secure:       secure,
		Region:       p.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, "create minio client", err)
	}

	logger.Debug("created minio client",
		zap.String("endpoint", host),
		zap.Bool("secure", secure),
		zap.String("bucket", location.Bucket),
	)

	return &Client{mc: mc, location: location, logger: logger}, nil
}

func (c *Client) Location() storage.Location {
	return c.location
}

// List drains the listing channel; minio-go follows continuation tokens on its own.
func (c *Client) List(ctx context.Context, prefix string, fields ...storage.Field) ([]models.RemoteObject, error) {
	c.logger.Debug("listing objects",
		zap.String("bucket", c.location.Bucket),
		zap.String("prefix", prefix),
		zap.String("fields", storage.FieldsParam(fields)),
	)

	var out []models.RemoteObject
	for obj := range c.mc.ListObjects(ctx, c.location.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errs.Wrap(errs.CodeList, "list objects", fmt.Errorf("bucket %s: %w", c.location.Bucket, obj.Err))
		}
		out = append(out, storage.Project(models.RemoteObject{
			Name:        obj.Key,
			TimeCreated: obj.LastModified,
			Size:        obj.Size,
		}, fields))
	}
	return out, nil
}

func (c *Client) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := c.mc.GetObject(ctx, c.location.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, errs.Wrap(errs.CodeDownload, "get object", fmt.Errorf("%s: %w", name, err))
	}
	// GetObject is lazy; Stat surfaces missing objects and auth failures before any local write.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, errs.Wrap(errs.CodeDownload, "get object", fmt.Errorf("%s: object not found in bucket %s", name, c.location.Bucket))
		}
		return nil, errs.Wrap(errs.CodeDownload, "get object", fmt.Errorf("%s: %w", name, err))
	}
	return obj, nil
}

func normalizeEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	secure = useSSL
	if endpoint == "" {
		return "", secure
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			secure = u.Scheme == "https"
			return u.Host, secure
		}
	}
	return strings.TrimSuffix(endpoint, "/"), secure
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
