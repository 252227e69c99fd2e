package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/namespace"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// Projector builds catalog entries for a user's namespace. Listing is one
// store round trip; the per-object download-link signing fans out with
// bounded parallelism so listing latency does not grow linearly with the
// number of objects.
type Projector struct {
	store       storage.Store
	downloadTTL time.Duration
	concurrency int
	logger      logging.Logger
}

func NewProjector(store storage.Store, downloadTTL time.Duration, concurrency int, logger logging.Logger) *Projector {
	return &Projector{
		store:       store,
		downloadTTL: downloadTTL,
		concurrency: concurrency,
		logger:      logger.With("module", "catalog"),
	}
}

// Project lists every object under the identity's prefix and projects each
// into an Entry. An empty namespace yields an empty slice. A signing
// failure for one object is logged and leaves that entry without a
// download capability; it never fails the whole listing.
func (p *Projector) Project(ctx context.Context, identity string) ([]Entry, error) {
	prefix, err := namespace.ListPrefix(identity)
	if err != nil {
		return nil, err
	}

	objects, err := p.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(objects))

	g, signCtx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	for i, obj := range objects {
		i, obj := i, obj
		name := namespace.Filename(obj.Key)
		entries[i] = Entry{
			ID:            obj.Key,
			Name:          name,
			Size:          obj.Size,
			SizeFormatted: FormatSize(obj.Size),
			Type:          Classify(name),
			UploadDate:    obj.LastModified,
		}

		g.Go(func() error {
			capability, err := p.store.PresignGet(signCtx, obj.Key, p.downloadTTL)
			if err != nil {
				p.logger.Warn(signCtx, "download link signing failed", "key", obj.Key, "error", err)
				return nil
			}
			entries[i].DownloadURL = capability.URL
			entries[i].DownloadExpiresAt = capability.ExpiresAt
			return nil
		})
	}

	// per-object errors are already handled; Wait only observes ctx
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
