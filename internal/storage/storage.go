// Package storage defines the object store contract used to list and fetch usage reports.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"usagereports/internal/models"
)

// Field names a listing attribute, following the Object Storage "fields" parameter.
type Field string

const (
	FieldName        Field = "name"
	FieldTimeCreated Field = "timeCreated"
	FieldSize        Field = "size"
)

// AllFields is what date filtering needs from a listing.
var AllFields = []Field{FieldName, FieldTimeCreated, FieldSize}

// ObjectStore lists and fetches objects in a single bucket.
type ObjectStore interface {
	// List returns the objects under prefix. Whether pages after the first are followed
	// depends on the backend. Without fields the store returns names only.
	List(ctx context.Context, prefix string, fields ...Field) ([]models.RemoteObject, error)

	// Fetch opens the content of the named object. The caller closes the stream.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// Location identifies the bucket a store reads from.
type Location struct {
	Namespace string
	Bucket    string
	Region    string
}

// Endpoint returns the S3 compatibility endpoint for the location's namespace and region.
func (l Location) Endpoint() string {
	return fmt.Sprintf("https://%s.compat.objectstorage.%s.oraclecloud.com", l.Namespace, l.Region)
}

// FieldsParam renders fields as the comma separated list the listing API takes.
func FieldsParam(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

// Project keeps only the requested attributes of obj. The name is always kept.
func Project(obj models.RemoteObject, fields []Field) models.RemoteObject {
	out := models.RemoteObject{Name: obj.Name}
	for _, f := range fields {
		switch f {
		case FieldTimeCreated:
			out.TimeCreated = obj.TimeCreated.UTC()
		case FieldSize:
			out.Size = obj.Size
		}
	}
	return out
}
