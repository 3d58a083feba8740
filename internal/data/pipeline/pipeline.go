// Package pipeline runs one complete load: resolve sources, decode files,
// merge, validate, compute derived stats and build the typed registry. A
// load either produces a publishable snapshot or a fatal outcome; it never
// mutates the currently published snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/starforge/internal/data/compute"
	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/merge"
	"github.com/zjrosen/starforge/internal/data/registry"
	"github.com/zjrosen/starforge/internal/data/source"
	"github.com/zjrosen/starforge/internal/data/validate"
	"github.com/zjrosen/starforge/internal/log"
)

// ErrSuperseded is returned when the load's context is cancelled because a
// newer change batch arrived before this load finished.
var ErrSuperseded = errors.New("load superseded by a newer change")

// FatalError carries the diagnostics of a load that failed validation. The
// full diagnostic list (advisories included) rides along for reporting.
type FatalError struct {
	Diagnostics []validate.Diagnostic
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("load failed with %d fatal diagnostic(s)",
		validate.Count(e.Diagnostics, validate.SeverityFatal))
}

// Loader runs loads against a fixed pair of data roots.
type Loader struct {
	dataDir string
	modsDir string
	cache   *decode.Cache
	tracer  trace.Tracer
}

// NewLoader creates a loader. A nil cache disables decode caching.
func NewLoader(dataDir, modsDir string, cache *decode.Cache) *Loader {
	return &Loader{
		dataDir: dataDir,
		modsDir: modsDir,
		cache:   cache,
		tracer:  otel.Tracer("starforge/pipeline"),
	}
}

// Load runs the full pipeline once. On success the returned snapshot is
// ready to publish and carries only advisory diagnostics. On a fatal
// outcome the error is a *FatalError with the complete diagnostic list; on
// cancellation it is ErrSuperseded.
func (l *Loader) Load(ctx context.Context) (*registry.Snapshot, error) {
	runID := uuid.New()
	started := time.Now()

	ctx, span := l.tracer.Start(ctx, "pipeline.load",
		trace.WithAttributes(attribute.String("run.id", runID.String())))
	defer span.End()

	log.Info(log.CatReload, "load started", "run", runID.String())

	a, err := l.analyze(ctx)
	if err != nil {
		return nil, err
	}
	if validate.HasFatal(a.diags) {
		span.SetAttributes(attribute.Bool("load.fatal", true))
		log.Error(log.CatReload, "load failed validation",
			"run", runID.String(),
			"fatal", validate.Count(a.diags, validate.SeverityFatal),
			"advisory", validate.Count(a.diags, validate.SeverityAdvisory))
		return nil, &FatalError{Diagnostics: a.diags}
	}
	if err := superseded(ctx); err != nil {
		return nil, err
	}

	derived := l.compute(ctx, a.merged)

	reg, err := l.build(ctx, a.merged, derived)
	if err != nil {
		return nil, err
	}

	snap := &registry.Snapshot{
		RunID:         runID,
		LoadedAt:      time.Now(),
		SchemaVersion: a.schemaVersion,
		Registry:      reg,
		Diagnostics:   a.diags,
	}

	log.Info(log.CatReload, "load complete",
		"run", runID.String(),
		"sources", a.sources,
		"advisory", validate.Count(a.diags, validate.SeverityAdvisory),
		"elapsed", time.Since(started).Round(time.Millisecond).String())

	return snap, nil
}

// Lint runs only the front half of the pipeline: resolve, decode, merge and
// validate. It returns the manifest schema version and every diagnostic
// without computing derived stats or building a registry, so a broken pack
// reports its fatals here instead of erroring.
func (l *Loader) Lint(ctx context.Context) (int, []validate.Diagnostic, error) {
	ctx, span := l.tracer.Start(ctx, "pipeline.lint")
	defer span.End()

	a, err := l.analyze(ctx)
	if err != nil {
		return 0, nil, err
	}
	return a.schemaVersion, a.diags, nil
}

// analysis is the shared output of the pipeline's front half.
type analysis struct {
	schemaVersion int
	sources       int
	merged        merge.Result
	diags         []validate.Diagnostic
}

func (l *Loader) analyze(ctx context.Context) (analysis, error) {
	resolution, err := l.resolve(ctx)
	if err != nil {
		return analysis{}, err
	}
	if err := superseded(ctx); err != nil {
		return analysis{}, err
	}

	var diags []validate.Diagnostic
	for _, skipped := range resolution.SkippedMods {
		diags = append(diags, validate.Diagnostic{
			Severity: validate.SeverityAdvisory,
			Message: fmt.Sprintf("mod %q skipped: schema version %d exceeds runtime version %d",
				skipped.Name, skipped.SchemaVersion, resolution.Manifest.SchemaVersion),
		})
	}

	inputs, decodeDiags, err := l.decodeSources(ctx, resolution.Sources)
	if err != nil {
		return analysis{}, err
	}
	diags = append(diags, decodeDiags...)
	if err := superseded(ctx); err != nil {
		return analysis{}, err
	}

	merged := l.merge(ctx, inputs)
	if err := superseded(ctx); err != nil {
		return analysis{}, err
	}

	diags = append(diags, l.validate(ctx, merged)...)

	return analysis{
		schemaVersion: resolution.Manifest.SchemaVersion,
		sources:       len(resolution.Sources),
		merged:        merged,
		diags:         diags,
	}, nil
}

func (l *Loader) resolve(ctx context.Context) (source.Resolution, error) {
	_, span := l.tracer.Start(ctx, "pipeline.resolve")
	defer span.End()

	resolution, err := source.Resolve(l.dataDir, l.modsDir)
	if err != nil {
		return source.Resolution{}, err
	}
	span.SetAttributes(
		attribute.Int("sources.count", len(resolution.Sources)),
		attribute.Int("sources.skipped", len(resolution.SkippedMods)),
	)
	return resolution, nil
}

// decodeSources decodes every data file of every source. A broken file in
// the base pack is fatal for the load; a broken file in a mod excludes only
// that file's records and degrades to an advisory.
func (l *Loader) decodeSources(ctx context.Context, sources []source.Source) ([]merge.Input, []validate.Diagnostic, error) {
	_, span := l.tracer.Start(ctx, "pipeline.decode")
	defer span.End()

	var inputs []merge.Input
	var diags []validate.Diagnostic
	files := 0

	for _, src := range sources {
		dataFiles, shadowed, err := src.DataFiles()
		if err != nil {
			return nil, nil, err
		}
		for _, path := range shadowed {
			diags = append(diags, validate.Diagnostic{
				Severity: validate.SeverityAdvisory,
				Message:  fmt.Sprintf("file %s shadowed by a preferred encoding", path),
			})
		}

		set := decode.RecordSet{}
		for _, file := range dataFiles {
			files++
			fileSet, err := l.cache.Decode(file.Path, file.Collection)
			if err != nil {
				severity := validate.SeverityAdvisory
				if src.Base {
					severity = validate.SeverityFatal
				}
				diags = append(diags, validate.Diagnostic{
					Severity:   severity,
					Collection: file.Collection,
					Message:    fmt.Sprintf("source %q: %v", src.Name, err),
				})
				log.Warn(log.CatDecode, "data file rejected",
					"source", src.Name, "path", file.Path, "error", err.Error())
				continue
			}
			set.Append(fileSet)
		}

		inputs = append(inputs, merge.Input{Source: src.Name, Set: set})
	}

	span.SetAttributes(attribute.Int("files.count", files))
	return inputs, diags, nil
}

func (l *Loader) merge(ctx context.Context, inputs []merge.Input) merge.Result {
	_, span := l.tracer.Start(ctx, "pipeline.merge")
	defer span.End()
	return merge.Merge(inputs)
}

func (l *Loader) validate(ctx context.Context, merged merge.Result) []validate.Diagnostic {
	_, span := l.tracer.Start(ctx, "pipeline.validate")
	defer span.End()

	diags := validate.Check(merged)
	span.SetAttributes(
		attribute.Int("diagnostics.fatal", validate.Count(diags, validate.SeverityFatal)),
		attribute.Int("diagnostics.advisory", validate.Count(diags, validate.SeverityAdvisory)),
	)
	return diags
}

func (l *Loader) compute(ctx context.Context, merged merge.Result) compute.Derived {
	_, span := l.tracer.Start(ctx, "pipeline.compute")
	defer span.End()
	return compute.FromMerged(merged)
}

func (l *Loader) build(ctx context.Context, merged merge.Result, derived compute.Derived) (*registry.Registry, error) {
	_, span := l.tracer.Start(ctx, "pipeline.build")
	defer span.End()
	return registry.Build(merged, derived)
}

func superseded(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrSuperseded
	}
	return nil
}
