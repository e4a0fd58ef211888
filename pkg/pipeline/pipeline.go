// Package pipeline orchestrates the full reconciliation run: filter raw
// program records down to swim activities, classify them, match them to
// facilities, expand them into dated sessions, resolve conflicts, and
// report on quality and coverage.
package pipeline

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/swimto/poolsync/pkg/classifier"
	"github.com/swimto/poolsync/pkg/conflicts"
	"github.com/swimto/poolsync/pkg/coverage"
	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/facilities"
	"github.com/swimto/poolsync/pkg/generator"
	"github.com/swimto/poolsync/pkg/logging"
	"github.com/swimto/poolsync/pkg/matcher"
	"github.com/swimto/poolsync/pkg/programs"
	"github.com/swimto/poolsync/pkg/quality"
	"github.com/swimto/poolsync/pkg/sessions"
)

// Source supplies raw program records from one upstream feed.
type Source interface {
	// Name identifies the source in logs and session provenance.
	Name() string
	// Records fetches every raw record. A failure here is fatal to the
	// run; per-record problems belong in the records themselves.
	Records(ctx context.Context) ([]programs.RawProgramRecord, error)
}

// Stats counts what happened during a run.
type Stats struct {
	TotalPrograms       int `json:"total_programs"`
	SwimPrograms        int `json:"swim_programs"`
	SessionsGenerated   int `json:"sessions_generated"`
	FacilitiesMatched   int `json:"facilities_matched"`
	FacilitiesUnmatched int `json:"facilities_unmatched"`
	ParsingErrors       int `json:"parsing_errors"`
	SlotsSkipped        int `json:"slots_skipped"`
	ConflictsDetected   int `json:"conflicts_detected"`
	ConflictsResolved   int `json:"conflicts_resolved"`
}

// Result is the complete output of one pipeline run.
type Result struct {
	Sessions    []sessions.Session   `json:"sessions"`
	Conflicts   []conflicts.Conflict `json:"conflicts,omitempty"`
	Stats       Stats                `json:"stats"`
	Quality     quality.Report       `json:"quality"`
	Coverage    coverage.Summary     `json:"coverage"`
	GeneratedAt utc.Time             `json:"generated_at"`
	Duration    time.Duration        `json:"duration_ns"`
}

// Pipeline wires the classifier, matcher, and generator together over a
// facility directory. Construct with New; the zero value is unusable.
type Pipeline struct {
	classifier *classifier.Classifier
	matcher    *matcher.Matcher
	facilities facilities.Facilities

	weeks    int
	start    sessions.Date
	optimize bool
	workers  int
	source   string

	matchOpts []matcher.Option
	rules     []classifier.Rule
}

// New builds a Pipeline over the given facility directory.
func New(dir facilities.Facilities, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		facilities: dir,
		weeks:      generator.DefaultWeeks,
		optimize:   true,
		workers:    4,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if len(p.rules) > 0 {
		p.classifier = classifier.New(append(p.rules, classifier.DefaultRules()...)...)
	} else {
		p.classifier = classifier.New()
	}

	m, err := matcher.New(p.matchOpts...)
	if err != nil {
		return nil, errors.NewConfigError("pipeline", "invalid matcher options", err)
	}
	p.matcher = m
	return p, nil
}

// Run executes the pipeline against one source. It fails only when the
// source itself fails or when nothing swimmable came back; bad records
// degrade the quality report instead of aborting the run.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Result, error) {
	began := time.Now()
	log := logging.Ctx(ctx).With().Str("source", src.Name()).Logger()

	records, err := src.Records(ctx)
	if err != nil {
		return nil, errors.NewSourceError(src.Name(), err)
	}
	log.Info().Int("records", len(records)).Msg("fetched raw program records")

	result := &Result{GeneratedAt: utc.Now()}
	result.Stats.TotalPrograms = len(records)

	swim := make([]programs.RawProgramRecord, 0, len(records))
	for _, rec := range records {
		if classifier.IsSwimActivity(rec.Title, rec.Category) {
			swim = append(swim, rec)
		}
	}
	result.Stats.SwimPrograms = len(swim)
	if len(swim) == 0 {
		return nil, errors.NewPipelineError("filter", "no swim programs in source "+src.Name(), errors.ErrNoSessions)
	}

	gen, err := p.newGenerator(src.Name())
	if err != nil {
		return nil, errors.NewConfigError("pipeline", "invalid generator options", err)
	}

	// Match memoization is scoped to one run.
	p.matcher.Reset()

	perRecord := p.processAll(ctx, swim, gen)

	for _, pr := range perRecord {
		result.Stats.SlotsSkipped += pr.skipped
		if len(pr.sessions) == 0 {
			// A swim program with no usable schedule is a parse
			// failure of that record, not of the run.
			result.Stats.ParsingErrors++
		}
		result.Sessions = append(result.Sessions, pr.sessions...)
	}
	result.Stats.SessionsGenerated = len(result.Sessions)
	if len(result.Sessions) == 0 {
		// Swim programs existed but none had a usable schedule. An
		// empty bundle must never look like a successful run.
		return nil, errors.NewPipelineError("generate", "no sessions generated from source "+src.Name(), errors.ErrNoSessions)
	}
	for i := range result.Sessions {
		// Matched and unmatched share a unit: sessions, not records.
		if result.Sessions[i].Matched() {
			result.Stats.FacilitiesMatched++
		} else {
			result.Stats.FacilitiesUnmatched++
		}
	}

	result.Conflicts = conflicts.Detect(result.Sessions)
	result.Stats.ConflictsDetected = len(result.Conflicts)
	if p.optimize && len(result.Conflicts) > 0 {
		before := len(result.Sessions)
		result.Sessions = conflicts.Optimize(result.Sessions)
		result.Stats.ConflictsResolved = before - len(result.Sessions)
		log.Info().
			Int("removed", result.Stats.ConflictsResolved).
			Msg("resolved schedule conflicts")
	}

	result.Quality = quality.NewReport(result.Sessions)
	result.Coverage = coverage.Analyze(result.Sessions)
	result.Duration = time.Since(began)

	log.Info().
		Int("sessions", len(result.Sessions)).
		Float64("quality_score", result.Quality.Score).
		Dur("duration", result.Duration).
		Msg("pipeline run complete")
	return result, nil
}

func (p *Pipeline) newGenerator(source string) (*generator.Generator, error) {
	opts := []generator.Option{
		generator.WithWeeks(p.weeks),
		generator.WithSource(p.sourceName(source)),
	}
	if !p.start.IsZero() {
		opts = append(opts, generator.WithStart(p.start))
	}
	return generator.New(opts...)
}

func (p *Pipeline) sourceName(fallback string) string {
	if p.source != "" {
		return p.source
	}
	return fallback
}

type recordResult struct {
	sessions []sessions.Session
	skipped  int
}

// processAll classifies, matches, and expands every record using a
// bounded worker pool. Results land in a slice indexed by record
// position, so output order never depends on scheduling.
func (p *Pipeline) processAll(ctx context.Context, recs []programs.RawProgramRecord, gen *generator.Generator) []recordResult {
	out := make([]recordResult, len(recs))

	workers := p.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(recs) {
		workers = len(recs)
	}

	jobs := make(chan int)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				out[i] = p.process(ctx, recs[i], gen)
			}
			done <- struct{}{}
		}()
	}
	for i := range recs {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}
	return out
}

func (p *Pipeline) process(ctx context.Context, rec programs.RawProgramRecord, gen *generator.Generator) recordResult {
	log := logging.Ctx(ctx)

	activity := p.classifier.Classify(rec.Title, rec.Category)

	var match *matcher.Match
	if rec.Location.Name != "" {
		match = p.matcher.Match(rec.Location.Name, matcher.Location{
			Address:    rec.Location.Address,
			PostalCode: rec.Location.PostalCode,
		}, p.facilities)
	}
	if match == nil {
		log.Debug().
			Str("title", rec.Title).
			Str("location", rec.Location.Name).
			Msg("no facility matched")
	}

	generated, skipped := gen.Generate(rec, activity, match)
	if skipped > 0 {
		log.Debug().
			Str("title", rec.Title).
			Int("skipped_slots", skipped).
			Msg("dropped unusable weekly slots")
	}

	return recordResult{sessions: generated, skipped: skipped}
}
