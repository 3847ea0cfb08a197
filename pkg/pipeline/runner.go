package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/opgraph/pkg/cache"
	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/dag/transform"
	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/observability"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

const keyTypeSchedule = "schedule"

// Runner encapsulates schedule construction with caching.
//
// The Runner holds no per-call state, so multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Schedule computes both execution orders of g, consulting the cache first.
func (r *Runner) Schedule(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// An unhashable graph is still scheduled, just without the cache.
	var key string
	graphHash, err := cache.HashJSON(graph.FromDAG(g))
	if err != nil {
		r.Logger.Warn("cannot hash graph, skipping cache", "graph", g.Name(), "error", err)
	} else {
		key = r.Keyer.ScheduleKey(graphHash)
	}

	result := &Result{
		Stats: Stats{
			NodeCount: g.NumberOfNodes(),
			EdgeCount: len(g.Edges()),
		},
	}

	if !opts.Refresh && key != "" {
		if s, ok := r.lookup(ctx, key); ok {
			result.Schedule = s
			result.CacheHit = true
			r.Logger.Debug("schedule cache hit", "graph", g.Name(), "hash", graphHash[:12])
			return result, nil
		}
	}

	hooks := observability.Schedule()
	hooks.OnBuildStart(ctx, g.Name(), g.NumberOfNodes())
	start := time.Now()
	v, err := viewer.New(g)
	result.Stats.BuildTime = time.Since(start)
	hooks.OnBuildComplete(ctx, g.Name(), result.Stats.BuildTime, err)
	if err != nil {
		if errors.Is(err, errors.ErrCodeGraphIntegrity) {
			back := transform.BackEdges(g)
			r.Logger.Warn("graph is not acyclic", "graph", g.Name(), "back_edges", back)
			pairs := make([][2]dag.NodeIndex, len(back))
			for i, e := range back {
				pairs[i] = [2]dag.NodeIndex{e.From, e.To}
			}
			errors.WithDetail(err, "back_edges", pairs)
		}
		return nil, err
	}

	result.Viewer = v
	result.Schedule = graph.FromViewer(v)
	result.Schedule.GraphHash = graphHash

	r.Logger.Info("built schedule",
		"graph", g.Name(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)

	if key != "" {
		r.store(ctx, key, result.Schedule)
	}
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (graph.Schedule, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeSchedule)
		return graph.Schedule{}, false
	}
	s, err := graph.UnmarshalSchedule(data)
	if err != nil {
		// Fall through to recompute.
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeSchedule)
		return graph.Schedule{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeSchedule)
	return s, true
}

func (r *Runner) store(ctx context.Context, key string, s graph.Schedule) {
	data, err := graph.MarshalSchedule(s)
	if err != nil {
		r.Logger.Warn("encode schedule", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLSchedule); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeSchedule, len(data))
}
