// Package artifact persists the intermediate results of a prediction run as
// JSON files so a run can be inspected after the fact.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Sink stores named artifacts.
type Sink interface {
	Save(ctx context.Context, name string, v any) error
	Purge(ctx context.Context, names ...string) error
}

// Dir writes each artifact as an indented JSON file inside a directory.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory is created on first save.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the file path for an artifact name.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.path, filepath.Base(name))
}

// Save encodes v and writes it to <dir>/<name>, replacing any previous file.
func (d *Dir) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return eris.Wrapf(err, "artifact: create dir %s", d.path)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "artifact: encode %s", name)
	}

	tmp := d.Path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "artifact: write %s", name)
	}
	if err := os.Rename(tmp, d.Path(name)); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrapf(err, "artifact: rename %s", name)
	}

	zap.L().Debug("artifact saved", zap.String("file", d.Path(name)))
	return nil
}

// Purge removes the named artifacts. Missing files are not an error; the
// first other failure is returned after every name has been tried.
func (d *Dir) Purge(_ context.Context, names ...string) error {
	var first error
	for _, name := range names {
		err := os.Remove(d.Path(name))
		switch {
		case err == nil:
			zap.L().Debug("artifact deleted", zap.String("file", name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			zap.L().Warn("artifact delete failed", zap.String("file", name), zap.Error(err))
			if first == nil {
				first = eris.Wrapf(err, "artifact: delete %s", name)
			}
		}
	}
	return first
}

// Nop discards artifacts.
type Nop struct{}

func (Nop) Save(context.Context, string, any) error { return nil }

func (Nop) Purge(context.Context, ...string) error { return nil }
