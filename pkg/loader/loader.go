// Package loader reads a directory of vehicle record files and turns each
// one into a normalized catalogs.Vehicle.
//
// Files are read concurrently. A file that cannot be read or has no usable
// metadata block is logged and skipped; only a missing record directory
// fails the whole load.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

// Skipped records a file that was left out of the result.
type Skipped struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

// Error returns the skip reason.
func (s Skipped) Error() string {
	if s.Err == nil {
		return s.File
	}
	return s.Err.Error()
}

// Result is the outcome of a load.
type Result struct {
	// Vehicles holds one entry per successfully decoded file. Callers must
	// not rely on its order.
	Vehicles []catalogs.Vehicle
	// Skipped lists files that were read but could not be decoded.
	Skipped []Skipped
	// Files is the number of record files found.
	Files int
}

// LoadAll returns the vehicles in dir, skipping malformed files.
func LoadAll(ctx context.Context, dir string, opts ...Option) ([]catalogs.Vehicle, error) {
	result, err := Load(ctx, dir, opts...)
	if err != nil {
		return nil, err
	}
	return result.Vehicles, nil
}

// Load reads every record file in dir and reports both the decoded vehicles
// and the files that were skipped.
func Load(ctx context.Context, dir string, opts ...Option) (*Result, error) {
	o := newOptions(opts...)
	if dir == "" {
		dir = "."
	}

	// With an injected fs.FS, dir is a slash path inside it. Otherwise dir is
	// an OS path and becomes the root of an os.DirFS.
	fsys, root := o.fsys, path.Clean(filepath.ToSlash(dir))
	display := func(name string) string { return path.Join(root, name) }
	if fsys == nil {
		if err := statDir(dir); err != nil {
			return nil, err
		}
		fsys, root = os.DirFS(dir), "."
		display = func(name string) string { return filepath.Join(dir, name) }
	}

	logger := o.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	names, err := listRecords(fsys, root, dir, o.extension)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		vehicle catalogs.Vehicle
		err     error
	}
	outcomes := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := decodeFile(fsys, path.Join(root, name), display(name), o)
			outcomes[i] = outcome{vehicle: v, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WrapResource("load", "records", dir, err)
	}

	result := &Result{
		Vehicles: make([]catalogs.Vehicle, 0, len(names)),
		Files:    len(names),
	}
	for i, out := range outcomes {
		if out.err != nil {
			file := display(names[i])
			logger.Warn().
				Str("file", file).
				Err(out.err).
				Msg("Skipping malformed record")
			result.Skipped = append(result.Skipped, Skipped{File: file, Err: out.err})
			continue
		}
		result.Vehicles = append(result.Vehicles, out.vehicle)
	}

	logger.Debug().
		Str("dir", dir).
		Int("files", result.Files).
		Int("loaded", len(result.Vehicles)).
		Int("skipped", len(result.Skipped)).
		Msg("Loaded records")

	return result, nil
}

// statDir checks an OS path before it becomes a DirFS root. A missing path
// and a path that is not a directory are both NotFound.
func statDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir(), errors.Is(err, fs.ErrNotExist):
		return errors.WrapIO("stat", dir, errors.NewNotFoundError("record directory", dir))
	case err != nil:
		return errors.WrapIO("stat", dir, err)
	}
	return nil
}

// listRecords returns the names of record files directly under root, in
// directory order.
func listRecords(fsys fs.FS, root, dir, ext string) ([]string, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapIO("stat", dir, errors.NewNotFoundError("record directory", dir))
		}
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.WrapIO("stat", dir, errors.NewNotFoundError("record directory", dir))
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func decodeFile(fsys fs.FS, name, display string, o *options) (catalogs.Vehicle, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return catalogs.Vehicle{}, errors.WrapIO("stat", display, err)
	}
	if info.Size() > constants.MaxRecordSize {
		return catalogs.Vehicle{}, &errors.ValidationError{
			Field:   "size",
			Value:   info.Size(),
			Message: "record file is larger than the maximum record size",
		}
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return catalogs.Vehicle{}, errors.WrapIO("read", display, err)
	}

	fields, err := o.decoder.Decode(string(data))
	if err != nil {
		return catalogs.Vehicle{}, errors.WrapParse(o.decoder.Name(), display, err)
	}
	return o.normalizer.Normalize(fields), nil
}
