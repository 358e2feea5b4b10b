// Package showroom provides the main entry point for the vehicle catalog
// pipeline. It turns a directory of record files, each a document with a
// metadata block, into one ordered dataset for the catalog front end.
//
// Two chains are offered:
//
//   - Load is the request-time chain: records are decoded, normalized and
//     returned sorted by identifier. Nothing is written.
//   - Build is the build-time chain: the same records are merged over a
//     previously published baseline and the result replaces the output
//     artifact.
//
// Example usage:
//
//	p, err := showroom.New(
//	    showroom.WithRecordDir("_vehicules"),
//	    showroom.WithBaselinePath("js/data.js"),
//	    showroom.WithOutputPath("js/data.js"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.OnVehicleAdded(func(v catalogs.Vehicle) {
//	    log.Printf("New vehicle: %s", v.Title())
//	})
//
//	result, err := p.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Changes.Summary())
package showroom

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/emitter"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/frontmatter"
	"github.com/agentstation/showroom/pkg/loader"
	"github.com/agentstation/showroom/pkg/logging"
)

// Pipeline loads, merges and emits a vehicle catalog.
type Pipeline struct {
	options    *options
	decoder    frontmatter.Decoder
	normalizer *catalogs.Normalizer
	format     emitter.Format
	hooks      *hooks

	// auto build state
	mu          sync.Mutex
	buildTicker *time.Ticker
	stopCh      chan struct{}
	buildCancel context.CancelFunc
}

// New creates a pipeline with the given options.
func New(opts ...Option) (*Pipeline, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	decoder, err := frontmatter.NewDecoder(o.decoder)
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(o.format, o.outputPath)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		options:    o,
		decoder:    decoder,
		normalizer: catalogs.NewNormalizer(catalogs.WithClock(o.clock)),
		format:     format,
		hooks:      newHooks(),
	}, nil
}

// resolveFormat prefers an explicit format, then the output extension.
func resolveFormat(name, outputPath string) (emitter.Format, error) {
	if name != "" {
		return emitter.ParseFormat(name)
	}
	if f, err := emitter.FormatFromPath(outputPath); err == nil {
		return f, nil
	}
	return emitter.FormatJSON, nil
}

// RecordDir returns the configured record directory.
func (p *Pipeline) RecordDir() string { return p.options.recordDir }

// OutputPath returns the configured artifact path.
func (p *Pipeline) OutputPath() string { return p.options.outputPath }

// Format returns the output format.
func (p *Pipeline) Format() emitter.Format { return p.format }

// Load returns the current vehicles, sorted by identifier. Malformed record
// files are skipped and logged; a missing record directory is an error.
func (p *Pipeline) Load(ctx context.Context) ([]catalogs.Vehicle, error) {
	result, err := p.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return result.Vehicles, nil
}

// Scan loads the records and also reports the files that were skipped.
// Vehicles in the result are sorted by identifier.
func (p *Pipeline) Scan(ctx context.Context) (*loader.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(errors.ErrCanceled, err)
	}

	result, err := loader.Load(ctx, p.options.recordDir, p.loaderOptions(ctx)...)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(result.Vehicles, func(a, b catalogs.Vehicle) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (p *Pipeline) loaderOptions(ctx context.Context) []loader.Option {
	opts := []loader.Option{
		loader.WithDecoder(p.decoder),
		loader.WithNormalizer(p.normalizer),
		loader.WithLogger(p.logger(ctx)),
	}
	if p.options.fsys != nil {
		opts = append(opts, loader.WithFS(p.options.fsys))
	}
	if p.options.concurrency > 0 {
		opts = append(opts, loader.WithConcurrency(p.options.concurrency))
	}
	return opts
}

func (p *Pipeline) logger(ctx context.Context) *zerolog.Logger {
	if p.options.logger != nil {
		return p.options.logger
	}
	return logging.FromContext(ctx)
}
