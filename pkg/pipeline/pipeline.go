// Package pipeline builds execution schedules for operator graphs with caching.
//
// The pipeline is shared by the CLI and the API server so that both entry
// points hash, cache, and order graphs the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Schedule(ctx, g, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Schedule.Priority)
//
// On a cache hit the schedule is decoded from the cache and no viewer is
// constructed, so Result.Viewer is nil.
package pipeline

import (
	"time"

	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

// Options controls a single Schedule call.
type Options struct {
	// Refresh skips the cache lookup and always recomputes. The fresh
	// schedule is still written back.
	Refresh bool
}

// Result holds the output of a Schedule call.
type Result struct {
	Schedule graph.Schedule
	Viewer   *viewer.Viewer
	CacheHit bool
	Stats    Stats
}

// Stats records timing and size information.
type Stats struct {
	NodeCount int
	EdgeCount int
	BuildTime time.Duration
}
