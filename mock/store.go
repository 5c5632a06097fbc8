package mock

import (
	"context"

	"github.com/gromk/ugmirror"
)

var _ ugmirror.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of ugmirror.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *ugmirror.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *ugmirror.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}

var _ ugmirror.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of ugmirror.Renderer.
type Renderer struct {
	RenderFn func(doc *ugmirror.ManualDocument, cfg ugmirror.RenderConfig) ([]ugmirror.Page, error)
}

func (r *Renderer) Render(doc *ugmirror.ManualDocument, cfg ugmirror.RenderConfig) ([]ugmirror.Page, error) {
	return r.RenderFn(doc, cfg)
}
