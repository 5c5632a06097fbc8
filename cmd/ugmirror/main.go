package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/vw"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program. The service fields are nil in normal operation
// and get wired from the parsed flags; tests inject fakes before calling Run.
type Main struct {
	Catalog  ugmirror.CatalogService
	Contents ugmirror.FragmentFetcher
	Assets   ugmirror.AssetFetcher
	Limiter  ugmirror.HostLimiter
	Renderer ugmirror.Renderer
	Strings  func(ctx context.Context) (map[string]string, error)
	NewStore func(baseDir, name string) ugmirror.PageStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ugmirror"),
		kong.Description("Mirror a vehicle's online user guide into a browsable offline folder."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps, err := m.wire(ctx, cli, stdout, stderr)
	if err != nil {
		return err
	}
	return cli.Run(deps)
}

// wire builds the service graph from the parsed flags, honoring any fakes
// injected on Main.
func (m *Main) wire(ctx context.Context, cli *CLI, stdout, stderr io.Writer) (*Dependencies, error) {
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Catalog:  m.Catalog,
		Contents: m.Contents,
		Assets:   m.Assets,
		Limiter:  m.Limiter,
		Renderer: m.Renderer,
		Strings:  m.Strings,
		NewStore: m.NewStore,
	}

	if deps.Catalog == nil || deps.Contents == nil {
		ref := ugmirror.VehicleRef{
			Identifier: cli.VehicleID,
			Language:   cli.Language,
		}
		opts := []vw.Option{vw.WithTimeout(cli.Timeout)}
		if cli.BaseURL != "" {
			opts = append(opts, vw.WithBaseURL(cli.BaseURL))
		}
		client, err := vw.NewClient(ref, opts...)
		if err != nil {
			return nil, err
		}
		if deps.Catalog == nil {
			deps.Catalog = client
		}
		if deps.Contents == nil {
			deps.Contents = client
		}
		if deps.Assets == nil {
			deps.Assets = client
		}
		if deps.Strings == nil {
			deps.Strings = client.Strings
		}
	}
	return deps, nil
}
