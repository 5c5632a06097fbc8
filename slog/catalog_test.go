package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/mock"
	ugslog "github.com/gromk/ugmirror/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCatalogService_ListManuals(t *testing.T) {
	t.Parallel()

	t.Run("logs count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			ListManualsFn: func(ctx context.Context) ([]ugmirror.ManualInfo, error) {
				return []ugmirror.ManualInfo{
					{TopicID: "manual-1", Title: "Owner's Manual"},
					{TopicID: "manual-2", Title: "Infotainment"},
				}, nil
			},
		}

		svc := ugslog.NewLoggingCatalogService(inner, logger)
		manuals, err := svc.ListManuals(context.Background())

		require.NoError(t, err)
		assert.Len(t, manuals, 2)
		output := buf.String()
		assert.Contains(t, output, "list manuals")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			ListManualsFn: func(ctx context.Context) ([]ugmirror.ManualInfo, error) {
				return nil, ugmirror.Errorf(ugmirror.EUNAVAILABLE, "service down")
			},
		}

		svc := ugslog.NewLoggingCatalogService(inner, logger)
		_, err := svc.ListManuals(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "service down")
	})
}

func TestLoggingCatalogService_Resolve(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.CatalogService{
		ResolveFn: func(ctx context.Context, manual ugmirror.ManualInfo) (*ugmirror.ChapterTree, error) {
			tree := ugmirror.NewChapterTree(manual.TopicID, manual.Title)
			_, err := tree.AddNode(ugmirror.RootNodeIndex, "A", "Chapter A", "/w/A")
			require.NoError(t, err)
			return tree, nil
		},
	}

	svc := ugslog.NewLoggingCatalogService(inner, logger)
	tree, err := svc.Resolve(context.Background(), ugmirror.ManualInfo{TopicID: "manual-1", Title: "Owner's Manual"})

	require.NoError(t, err)
	assert.Equal(t, 2, tree.Len())
	output := buf.String()
	assert.Contains(t, output, "resolve manual")
	assert.Contains(t, output, "manual=manual-1")
	assert.Contains(t, output, "chapters=2")
}
