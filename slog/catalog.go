// Package slog provides logging decorators for the core service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gromk/ugmirror"
)

// Ensure LoggingCatalogService implements ugmirror.CatalogService.
var _ ugmirror.CatalogService = (*LoggingCatalogService)(nil)

// LoggingCatalogService wraps a CatalogService with timing logs.
type LoggingCatalogService struct {
	next   ugmirror.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalogService creates a new LoggingCatalogService.
func NewLoggingCatalogService(next ugmirror.CatalogService, logger *slog.Logger) *LoggingCatalogService {
	return &LoggingCatalogService{next: next, logger: logger}
}

func (s *LoggingCatalogService) ListManuals(ctx context.Context) ([]ugmirror.ManualInfo, error) {
	begin := time.Now()
	manuals, err := s.next.ListManuals(ctx)
	if err != nil {
		s.logger.Error("list manuals",
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("list manuals",
		"count", len(manuals),
		"duration", time.Since(begin),
	)
	return manuals, nil
}

func (s *LoggingCatalogService) Resolve(ctx context.Context, manual ugmirror.ManualInfo) (*ugmirror.ChapterTree, error) {
	begin := time.Now()
	tree, err := s.next.Resolve(ctx, manual)
	if err != nil {
		s.logger.Error("resolve manual",
			"manual", manual.TopicID,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("resolve manual",
		"manual", manual.TopicID,
		"chapters", tree.Len(),
		"duration", time.Since(begin),
	)
	return tree, nil
}
