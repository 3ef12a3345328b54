package services

import (
	"context"
	"fmt"
	"time"

	"offer-ticketing-platform/internal/config"
	"offer-ticketing-platform/internal/logging"
)

// NewStorageService builds the artifact store: R2 with a local fallback when R2 is
// configured and reachable, otherwise local storage only.
func NewStorageService(ctx context.Context, cfg *config.Config) (StorageService, error) {
	log := logging.FromContext(ctx)

	local, err := NewLocalStorageService(cfg.Media.Dir, cfg.Media.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create local storage: %w", err)
	}

	if !cfg.R2Configured() {
		log.Info("R2 not configured, storing artifacts locally")
		return local, nil
	}

	r2, err := NewR2Service(ctx, cfg.R2)
	if err != nil {
		log.WithError(err).Warn("R2 service unavailable, using local storage only")
		return local, nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r2.CreateBucket(checkCtx); err != nil {
		log.WithError(err).Warn("Could not ensure R2 bucket exists")
	}
	if err := r2.HealthCheck(checkCtx); err != nil {
		log.WithError(err).Warn("R2 health check failed, using local storage only")
		return local, nil
	}

	log.WithField("bucket", cfg.R2.BucketName).Info("R2 storage service initialized")
	return NewStorageServiceWithFallback(r2, local), nil
}
