package mock

import (
	"context"

	"github.com/gromk/ugmirror"
)

var _ ugmirror.FragmentFetcher = (*FragmentFetcher)(nil)

// FragmentFetcher is a mock implementation of ugmirror.FragmentFetcher.
type FragmentFetcher struct {
	FetchFragmentFn func(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment
}

func (f *FragmentFetcher) FetchFragment(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment {
	return f.FetchFragmentFn(ctx, node)
}

var _ ugmirror.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of ugmirror.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	return f.FetchAssetFn(ctx, url)
}

var _ ugmirror.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of ugmirror.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
