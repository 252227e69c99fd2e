// Package services implements the gateway's use cases on top of the
// namespace policy and the object store: issuing upload capabilities,
// projecting catalogs, deleting objects and producing share links.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/catalog"
	sc "github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/namespace"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// UploadTicket is the first phase of the two-phase upload protocol: the
// client receives the capability here, then PUTs the bytes directly against
// the store. The gateway never sees the payload.
type UploadTicket struct {
	Key       string
	UploadURL string
	ExpiresAt time.Time
}

type FileService struct {
	store     storage.Store
	projector *catalog.Projector
	config    *sc.Config
	logger    logging.Logger
}

func NewFileService(store storage.Store, config *sc.Config, logger logging.Logger) *FileService {
	return &FileService{
		store:     store,
		projector: catalog.NewProjector(store, config.DownloadURLTTL, config.SignConcurrency, logger),
		config:    config,
		logger:    logger.With("module", "files"),
	}
}

// RequestUpload derives the namespace key for (identity, filename) and
// issues a PUT capability for it. The TTL is gateway-chosen; callers cannot
// extend it.
func (s *FileService) RequestUpload(ctx context.Context, identity, filename string) (*UploadTicket, error) {
	key, err := namespace.Key(identity, filename)
	if err != nil {
		return nil, err
	}

	capability, err := s.store.PresignPut(ctx, key, "application/octet-stream", s.config.UploadURLTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "issued upload capability", "key", key, "expires_at", capability.ExpiresAt)

	return &UploadTicket{
		Key:       key,
		UploadURL: capability.URL,
		ExpiresAt: capability.ExpiresAt,
	}, nil
}

// ListFiles projects the caller's namespace into catalog entries.
func (s *FileService) ListFiles(ctx context.Context, identity string) ([]catalog.Entry, error) {
	return s.projector.Project(ctx, identity)
}

// DeleteFile removes one object after verifying the key belongs to the
// caller. Unlike uploads and downloads, deletion is never delegated via a
// capability: it stays server-mediated.
func (s *FileService) DeleteFile(ctx context.Context, identity, key string) error {
	if err := namespace.CheckOwnership(identity, key); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}
