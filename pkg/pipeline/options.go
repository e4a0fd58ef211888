package pipeline

import (
	"fmt"

	"github.com/swimto/poolsync/pkg/classifier"
	"github.com/swimto/poolsync/pkg/matcher"
	"github.com/swimto/poolsync/pkg/sessions"
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithWeeks sets how many weeks of sessions to generate.
func WithWeeks(weeks int) Option {
	return func(p *Pipeline) error {
		if weeks < 1 {
			return fmt.Errorf("pipeline: weeks must be positive, got %d", weeks)
		}
		p.weeks = weeks
		return nil
	}
}

// WithStart pins the first day of the generation window. Defaults to
// today.
func WithStart(d sessions.Date) Option {
	return func(p *Pipeline) error {
		if d.IsZero() {
			return fmt.Errorf("pipeline: start date is unset")
		}
		p.start = d
		return nil
	}
}

// WithOptimize controls whether overlapping sessions are resolved or
// only reported.
func WithOptimize(enabled bool) Option {
	return func(p *Pipeline) error {
		p.optimize = enabled
		return nil
	}
}

// WithWorkers bounds how many records are processed concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("pipeline: workers must be positive, got %d", n)
		}
		p.workers = n
		return nil
	}
}

// WithMatchThreshold overrides the facility match threshold.
func WithMatchThreshold(threshold float64) Option {
	return func(p *Pipeline) error {
		p.matchOpts = append(p.matchOpts, matcher.WithThreshold(threshold))
		return nil
	}
}

// WithMatchWeights overrides the facility match score weights.
func WithMatchWeights(w matcher.Weights) Option {
	return func(p *Pipeline) error {
		p.matchOpts = append(p.matchOpts, matcher.WithWeights(w))
		return nil
	}
}

// WithRules adds classification rules ahead of the defaults.
func WithRules(rules ...classifier.Rule) Option {
	return func(p *Pipeline) error {
		p.rules = append(p.rules, rules...)
		return nil
	}
}

// WithSourceName overrides the provenance stamp on generated sessions.
func WithSourceName(name string) Option {
	return func(p *Pipeline) error {
		p.source = name
		return nil
	}
}
