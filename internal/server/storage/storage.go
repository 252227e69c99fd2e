// Package storage mediates all access to the backing S3-compatible object
// store. Clients of the gateway never hold store credentials: uploads and
// downloads are delegated through presigned URLs issued here, while delete,
// head and list stay server-mediated.
package storage

import (
	"context"
	"time"
)

// Presign TTL bounds. SigV4 refuses anything above seven days, so these are
// hard limits, not tunables.
const (
	MinPresignTTL = 60 * time.Second
	MaxPresignTTL = 7 * 24 * time.Hour

	// DefaultDownloadTTL is used when a caller requests a GET capability
	// without specifying a validity window.
	DefaultDownloadTTL = 1 * time.Hour
)

// Capability is a single-operation, time-bounded authorization for one
// object. It is bearer-style: anyone holding the URL can exercise it until
// expiry, regardless of who it was issued to.
type Capability struct {
	URL       string
	Method    string
	Key       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ObjectInfo is the store's view of one object, as returned by listings and
// head probes.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is the narrow operation set the gateway needs from an object store.
type Store interface {
	// PresignPut issues a PUT capability for key. An empty contentType
	// defaults to application/octet-stream.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*Capability, error)

	// PresignGet issues a GET capability for key. A non-positive ttl falls
	// back to DefaultDownloadTTL; the effective value is always clamped to
	// [MinPresignTTL, MaxPresignTTL].
	PresignGet(ctx context.Context, key string, ttl time.Duration) (*Capability, error)

	// Delete removes the object synchronously. Deleting a missing key is
	// success, not an error.
	Delete(ctx context.Context, key string) error

	// Head probes for the object's existence and metadata.
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// List returns every object under prefix, walking all pages. An empty
	// namespace yields an empty slice.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ClampTTL bounds a requested validity window to [min, max]. A request for
// a zero or negative window is raised to min, never passed through.
func ClampTTL(requested, min, max time.Duration) time.Duration {
	if requested < min {
		return min
	}
	if requested > max {
		return max
	}
	return requested
}
