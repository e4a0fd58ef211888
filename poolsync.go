// Package poolsync reconciles municipal drop-in swim program feeds into a
// clean, conflict-free schedule.
//
// The root package is a thin facade over the pipeline: load a facility
// directory, point a Reconciler at a record source, and receive dated
// sessions plus quality and coverage reports. The building blocks live in
// pkg/ for callers that need finer control.
package poolsync

import (
	"context"

	"github.com/swimto/poolsync/pkg/facilities"
	"github.com/swimto/poolsync/pkg/pipeline"
)

// Reconciler runs the reconciliation pipeline against record sources.
type Reconciler interface {
	// Reconcile processes one source end to end.
	Reconcile(ctx context.Context, src pipeline.Source) (*pipeline.Result, error)

	// Facilities returns the facility directory in use.
	Facilities() facilities.Facilities
}

type reconciler struct {
	pipeline   *pipeline.Pipeline
	facilities facilities.Facilities
}

// New creates a Reconciler over the given facility directory. Options are
// forwarded to the underlying pipeline.
func New(dir facilities.Facilities, opts ...pipeline.Option) (Reconciler, error) {
	p, err := pipeline.New(dir, opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{pipeline: p, facilities: dir}, nil
}

// NewFromFile creates a Reconciler loading the facility directory from a
// YAML file.
func NewFromFile(facilitiesPath string, opts ...pipeline.Option) (Reconciler, error) {
	dir, err := facilities.Load(facilitiesPath)
	if err != nil {
		return nil, err
	}
	return New(dir, opts...)
}

func (r *reconciler) Reconcile(ctx context.Context, src pipeline.Source) (*pipeline.Result, error) {
	return r.pipeline.Run(ctx, src)
}

func (r *reconciler) Facilities() facilities.Facilities {
	return r.facilities
}
