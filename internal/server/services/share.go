package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filevault/internal/logging"
	sc "github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/namespace"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// ShareLink is a distributable GET capability for one object, with its
// effective validity window made explicit for the caller.
type ShareLink struct {
	ShareURL  string
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

type ShareService struct {
	store  storage.Store
	minTTL time.Duration
	maxTTL time.Duration
	logger logging.Logger
}

func NewShareService(store storage.Store, config *sc.Config, logger logging.Logger) *ShareService {
	return &ShareService{
		store:  store,
		minTTL: config.ShareMinTTL,
		maxTTL: config.ShareMaxTTL,
		logger: logger.With("module", "share"),
	}
}

// Share issues a share link for key on behalf of identity.
//
// The key must lie in the caller's own namespace and the object must exist.
// expiresIn is clamped to [minTTL, maxTTL]; the zero value is a sentinel
// meaning "never expires" and maps to the maximum practical window (SigV4
// refuses signatures valid longer than seven days, so a true no-expiry link
// cannot be produced).
func (s *ShareService) Share(ctx context.Context, identity, key string, expiresIn time.Duration) (*ShareLink, error) {
	if err := namespace.CheckOwnership(identity, key); err != nil {
		return nil, err
	}

	if _, err := s.store.Head(ctx, key); err != nil {
		return nil, err
	}

	if expiresIn == 0 {
		expiresIn = s.maxTTL
	}
	effective := storage.ClampTTL(expiresIn, s.minTTL, s.maxTTL)

	capability, err := s.store.PresignGet(ctx, key, effective)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "issued share link", "key", key, "expires_in", effective)

	return &ShareLink{
		ShareURL:  capability.URL,
		ExpiresIn: effective,
		ExpiresAt: capability.ExpiresAt,
	}, nil
}
