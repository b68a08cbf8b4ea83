package cli

import (
	"context"
	"fmt"
	"log/slog"

	"diocese/internal/blob"
	"diocese/internal/core"
	"diocese/internal/platform/config"
	"diocese/internal/platform/logger"
)

// DefaultOpener opens the collection store and profile image store selected
// by cfg.
func DefaultOpener(cfg config.Config, log *slog.Logger) Opener {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx context.Context) (*core.Service, error) {
		store, err := core.OpenCollectionStore(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		images, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		log.Debug("directory opened",
			"storage", core.ResolveDriver(cfg.Storage),
			"blob", images.Driver(),
		)
		return core.NewService(store,
			core.WithLogger(log),
			core.WithProfileImages(images),
			core.WithTracer(core.NewOTelTracer(nil)),
			core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("")),
		), nil
	}
}
