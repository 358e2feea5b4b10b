package showroom

import (
	"context"
	"time"

	"github.com/agentstation/showroom/pkg/baseline"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/emitter"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/loader"
	"github.com/agentstation/showroom/pkg/reconciler"
)

// BuildResult describes one build.
type BuildResult struct {
	// Vehicles is the emitted dataset, sorted by identifier.
	Vehicles []catalogs.Vehicle
	// Changes is the changeset of records against the baseline.
	Changes *reconciler.Result
	// Skipped lists record files left out as malformed.
	Skipped []loader.Skipped
	// Files is the number of record files found.
	Files int

	OutputPath string
	Format     emitter.Format
	Bytes      int
	DryRun     bool
	Duration   time.Duration
}

// Build loads the records, merges them over the baseline and replaces the
// output artifact. Malformed records are skipped; the build fails only when
// the record directory cannot be read, the baseline is unreadable, strict
// duplicate checking rejects the records, or the artifact cannot be written.
func (p *Pipeline) Build(ctx context.Context) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	logger := p.logger(ctx)

	loaded, err := p.Scan(ctx)
	if err != nil {
		return nil, err
	}

	base, err := p.loadBaseline()
	if err != nil {
		return nil, err
	}

	changes, err := reconciler.Reconcile(base, loaded.Vehicles, p.reconcilerOptions(ctx)...)
	if err != nil {
		return nil, err
	}

	emitOpts := []emitter.Option{emitter.WithFormat(p.format)}
	if p.options.banner {
		emitOpts = append(emitOpts, emitter.WithBanner(p.options.clock()))
	}
	data, err := emitter.Emit(changes.Vehicles, emitOpts...)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(errors.ErrCanceled, err)
	}
	if !p.options.dryRun {
		if err := emitter.WriteAtomic(p.options.outputPath, data); err != nil {
			return nil, err
		}
	}

	p.hooks.trigger(base, changes)

	result := &BuildResult{
		Vehicles:   changes.Vehicles,
		Changes:    changes,
		Skipped:    loaded.Skipped,
		Files:      loaded.Files,
		OutputPath: p.options.outputPath,
		Format:     p.format,
		Bytes:      len(data),
		DryRun:     p.options.dryRun,
		Duration:   time.Since(start),
	}

	logger.Info().
		Str("output", result.OutputPath).
		Str("format", result.Format.String()).
		Int("vehicles", len(result.Vehicles)).
		Int("added", len(changes.Added)).
		Int("updated", len(changes.Updated)).
		Int("skipped", len(result.Skipped)).
		Bool("dry_run", result.DryRun).
		Dur("duration", result.Duration).
		Msg("Build complete")

	return result, nil
}

func (p *Pipeline) loadBaseline() ([]catalogs.Vehicle, error) {
	if p.options.baselinePath == "" {
		return nil, nil
	}
	return baseline.Load(p.options.baselinePath,
		baseline.AllowMissing(),
		baseline.WithNormalizer(p.normalizer),
		baseline.WithLogger(p.options.logger),
	)
}

func (p *Pipeline) reconcilerOptions(ctx context.Context) []reconciler.Option {
	baselineName := p.options.baselinePath
	if baselineName == "" {
		baselineName = "baseline"
	}
	opts := []reconciler.Option{
		reconciler.WithLogger(p.logger(ctx)),
		reconciler.WithSourceNames(baselineName, p.options.recordDir),
	}
	if p.options.strictDuplicates {
		opts = append(opts, reconciler.WithStrictDuplicates())
	}
	return opts
}
