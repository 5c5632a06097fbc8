package main

import (
	"context"
	"io"
	"time"

	"github.com/gromk/ugmirror"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Catalog  ugmirror.CatalogService
	Contents ugmirror.FragmentFetcher
	Assets   ugmirror.AssetFetcher
	Limiter  ugmirror.HostLimiter
	Renderer ugmirror.Renderer
	Strings  func(ctx context.Context) (map[string]string, error)
	NewStore func(baseDir, name string) ugmirror.PageStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	VehicleID string `arg:"" help:"17-character VIN or license plate"`

	Language     string        `short:"l" default:"en_GB" help:"Manual locale, e.g. fr_FR"`
	Output       string        `short:"o" default:"." type:"path" help:"Parent directory for the manual folder"`
	ExtendMode   string        `default:"single" enum:"single,toggle,all" help:"Chapter expand behavior"`
	TocPosition  string        `name:"toc-position" default:"sidebar" enum:"sidebar,header,none" help:"Navigation tree placement"`
	CrashOnError bool          `help:"Abort on the first chapter fetch failure"`
	Manual       string        `short:"m" help:"Manual title or 1-based index when several exist (default first)"`
	List         bool          `help:"List available manuals and exit"`
	Concurrency  int           `short:"c" default:"5" help:"Concurrent fetch limit"`
	Rate         float64       `default:"4" help:"Requests per second against the remote service"`
	Timeout      time.Duration `default:"30s" help:"Per-request timeout"`
	Verbose      bool          `short:"v" help:"Log every request"`
	NoProgress   bool          `help:"Disable the progress bar"`

	BaseURL string `hidden:"" help:"Override the remote service URL"`
}
