package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gromk/ugmirror"
)

// Ensure LoggingFragmentFetcher implements ugmirror.FragmentFetcher.
var _ ugmirror.FragmentFetcher = (*LoggingFragmentFetcher)(nil)

// LoggingFragmentFetcher wraps a FragmentFetcher with per-chapter logs.
type LoggingFragmentFetcher struct {
	next   ugmirror.FragmentFetcher
	logger *slog.Logger
}

// NewLoggingFragmentFetcher creates a new LoggingFragmentFetcher.
func NewLoggingFragmentFetcher(next ugmirror.FragmentFetcher, logger *slog.Logger) *LoggingFragmentFetcher {
	return &LoggingFragmentFetcher{next: next, logger: logger}
}

func (f *LoggingFragmentFetcher) FetchFragment(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment {
	begin := time.Now()
	frag := f.next.FetchFragment(ctx, node)
	switch frag.Status {
	case ugmirror.StatusFailed:
		f.logger.Error("fetch chapter",
			"chapter", node.ID,
			"status", frag.Status,
			"duration", time.Since(begin),
			"err", frag.Err,
		)
	case ugmirror.StatusFetched:
		f.logger.Info("fetch chapter",
			"chapter", node.ID,
			"status", frag.Status,
			"bytes", len(frag.HTML),
			"hash", frag.Hash,
			"duration", time.Since(begin),
		)
	default:
		f.logger.Info("fetch chapter",
			"chapter", node.ID,
			"status", frag.Status,
			"duration", time.Since(begin),
		)
	}
	return frag
}

// Ensure LoggingAssetFetcher implements ugmirror.AssetFetcher.
var _ ugmirror.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with per-asset debug logs.
type LoggingAssetFetcher struct {
	next   ugmirror.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next ugmirror.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

func (f *LoggingAssetFetcher) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	begin := time.Now()
	data, err := f.next.FetchAsset(ctx, url)
	if err != nil {
		f.logger.Warn("fetch asset",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	f.logger.Debug("fetch asset",
		"url", url,
		"bytes", len(data),
		"duration", time.Since(begin),
	)
	return data, nil
}
