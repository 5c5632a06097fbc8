// Package fs persists rendered manuals to the local filesystem with atomic
// replace semantics.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gromk/ugmirror"
)

// Ensure Store implements ugmirror.PageStore at compile time.
var _ ugmirror.PageStore = (*Store)(nil)

// Store implements ugmirror.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type Store struct {
	baseDir string
	name    string
}

// NewStore creates a new Store. baseDir is the parent directory, name is the
// output directory name. Files are saved to baseDir/name.tmp and moved to
// baseDir/name on Commit.
func NewStore(baseDir, name string) *Store {
	return &Store{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *Store) Save(ctx context.Context, page *ugmirror.Page) error {
	rel := filepath.FromSlash(page.Path)
	if rel == "" || filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
		return ugmirror.Errorf(ugmirror.EINVALID, "page path %q escapes the output folder", page.Path)
	}

	fullPath := filepath.Join(s.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "create output directory")
	}
	if err := os.WriteFile(fullPath, page.Data, 0644); err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "write page %s", page.Path)
	}
	return nil
}

// Commit replaces the destination folder in full. Files from a previous run
// that this run did not produce are gone afterwards.
func (s *Store) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "remove previous output")
	}
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "move output into place")
	}
	return nil
}

// Abort discards pending writes. The destination is left exactly as it was.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}

var subfolderUnsafe = regexp.MustCompile(`['’(), ]`)

// Subfolder derives the per-manual output folder name from the vehicle
// identifier and the manual title, with shell-hostile characters replaced.
func Subfolder(identifier, title string) string {
	return subfolderUnsafe.ReplaceAllString(strings.TrimSpace(identifier)+"_"+strings.TrimSpace(title), "_")
}
