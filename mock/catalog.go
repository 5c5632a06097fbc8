// Package mock provides function-field mock implementations of the ugmirror
// domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/gromk/ugmirror"
)

var _ ugmirror.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of ugmirror.CatalogService.
type CatalogService struct {
	ListManualsFn func(ctx context.Context) ([]ugmirror.ManualInfo, error)
	ResolveFn     func(ctx context.Context, manual ugmirror.ManualInfo) (*ugmirror.ChapterTree, error)
}

func (s *CatalogService) ListManuals(ctx context.Context) ([]ugmirror.ManualInfo, error) {
	return s.ListManualsFn(ctx)
}

func (s *CatalogService) Resolve(ctx context.Context, manual ugmirror.ManualInfo) (*ugmirror.ChapterTree, error) {
	return s.ResolveFn(ctx, manual)
}
