package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/crawl"
	"github.com/gromk/ugmirror/fs"
	"github.com/gromk/ugmirror/render"
	ugslog "github.com/gromk/ugmirror/slog"
	"github.com/gromk/ugmirror/vw"
)

// Run executes the mirror pipeline: resolve the manual, crawl its chapters,
// render the offline pages and swap them into place.
func (c *CLI) Run(deps *Dependencies) error {
	ref := ugmirror.VehicleRef{
		Identifier: c.VehicleID,
		Language:   c.Language,
	}
	if err := ref.Validate(); err != nil {
		return err
	}

	cfg, err := c.renderConfig()
	if err != nil {
		return err
	}

	logger := c.logger(deps)
	catalog := ugslog.NewLoggingCatalogService(deps.Catalog, logger)

	manuals, err := catalog.ListManuals(deps.Ctx)
	if err != nil {
		return err
	}

	if c.List {
		for i, m := range manuals {
			fmt.Fprintf(deps.Stdout, "%d. %s (%s)\n", i+1, m.Title, m.TopicID)
		}
		return nil
	}

	manual, err := selectManual(manuals, c.Manual)
	if err != nil {
		return err
	}

	tree, err := catalog.Resolve(deps.Ctx, manual)
	if err != nil {
		return err
	}

	crawler := &crawl.Crawler{
		Contents:    ugslog.NewLoggingFragmentFetcher(deps.Contents, logger),
		Limiter:     deps.Limiter,
		Host:        remoteHost(c.BaseURL),
		Concurrency: c.Concurrency,
	}
	if deps.Assets != nil {
		crawler.Assets = ugslog.NewLoggingAssetFetcher(deps.Assets, logger)
	}
	if crawler.Limiter == nil && c.Rate > 0 {
		crawler.Limiter = crawl.NewHostLimiter(c.Rate)
	}

	progress := newProgressReporter(deps.Stdout, deps.Stderr, c.NoProgress)
	doc, err := crawler.Crawl(deps.Ctx, tree, ref, cfg, progress)
	if err != nil {
		return err
	}
	stats := doc.Stats()
	logger.Info("manual assembled",
		"run", doc.ID,
		"fetched", stats.Fetched,
		"failed", stats.Failed,
		"duplicates", stats.Duplicates,
		"bytes", stats.Bytes,
	)

	// Chrome labels are cosmetic; the renderer falls back to built-in
	// labels when the scrape fails.
	if deps.Strings != nil {
		labels, err := deps.Strings(deps.Ctx)
		if err != nil {
			logger.Warn("scrape ui labels", "err", err)
		} else {
			doc.Strings = labels
		}
	}

	renderer := deps.Renderer
	if renderer == nil {
		r, err := render.NewRenderer()
		if err != nil {
			return err
		}
		renderer = r
	}
	pages, err := renderer.Render(doc, cfg)
	if err != nil {
		return err
	}

	subfolder := fs.Subfolder(ref.Identifier, tree.Title)
	var store ugmirror.PageStore
	if deps.NewStore != nil {
		store = deps.NewStore(c.Output, subfolder)
	} else {
		store = fs.NewStore(c.Output, subfolder)
	}
	for i := range pages {
		if err := store.Save(deps.Ctx, &pages[i]); err != nil {
			_ = store.Abort()
			return err
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %q (%d chapters fetched, %d failed, %d empty) to %s\n",
		tree.Title, stats.Fetched, stats.Failed, stats.Missing, subfolder)
	return nil
}

func (c *CLI) renderConfig() (ugmirror.RenderConfig, error) {
	mode, err := ugmirror.ParseExtendMode(c.ExtendMode)
	if err != nil {
		return ugmirror.RenderConfig{}, err
	}
	pos, err := ugmirror.ParseTOCPosition(c.TocPosition)
	if err != nil {
		return ugmirror.RenderConfig{}, err
	}
	return ugmirror.RenderConfig{
		ExtendMode:   mode,
		TOCPosition:  pos,
		CrashOnError: c.CrashOnError,
	}, nil
}

func (c *CLI) logger(deps *Dependencies) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))
}

// selectManual picks a manual by 1-based index, exact title, or title
// substring. An empty selector picks the first manual.
func selectManual(manuals []ugmirror.ManualInfo, selector string) (ugmirror.ManualInfo, error) {
	if len(manuals) == 0 {
		return ugmirror.ManualInfo{}, ugmirror.Errorf(ugmirror.ENOTFOUND, "no manuals available for this vehicle")
	}
	if selector == "" {
		return manuals[0], nil
	}

	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(manuals) {
			return ugmirror.ManualInfo{}, ugmirror.Errorf(ugmirror.EINVALID,
				"manual index %d out of range (1-%d)", n, len(manuals))
		}
		return manuals[n-1], nil
	}

	for _, m := range manuals {
		if strings.EqualFold(m.Title, selector) {
			return m, nil
		}
	}
	for _, m := range manuals {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(selector)) {
			return m, nil
		}
	}
	return ugmirror.ManualInfo{}, ugmirror.Errorf(ugmirror.ENOTFOUND, "no manual matches %q", selector)
}

func remoteHost(baseURL string) string {
	if baseURL == "" {
		baseURL = vw.DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}
