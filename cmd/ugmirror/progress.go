package main

import (
	"fmt"
	"io"

	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/crawl"
	"github.com/schollz/progressbar/v3"
)

// newProgressReporter returns a crawl.ProgressFunc that drives a terminal
// progress bar, or a silent reporter that only prints chapter failures.
func newProgressReporter(stdout, stderr io.Writer, silent bool) crawl.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			if !silent {
				bar = progressbar.NewOptions(event.Total,
					progressbar.OptionSetWriter(stdout),
					progressbar.OptionSetDescription("Fetching chapters"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
		case crawl.ProgressCompleted:
			if bar != nil {
				_ = bar.Set(event.Completed)
			}
		case crawl.ProgressFailed:
			if bar != nil {
				_ = bar.Set(event.Completed)
			}
			fmt.Fprintf(stderr, "  chapter %q: %s\n", event.Chapter, ugmirror.ErrorMessage(event.Err))
		case crawl.ProgressFinished:
			if bar != nil {
				_ = bar.Finish()
			}
		}
	}
}
