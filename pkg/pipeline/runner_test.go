package pipeline

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/opgraph/pkg/cache"
	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/observability"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type countingHooks struct {
	hits, misses, sets int
	builds             int
}

func (h *countingHooks) OnCacheHit(context.Context, string)        { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)       { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int)   { h.sets++ }
func (h *countingHooks) OnBuildStart(context.Context, string, int) {}
func (h *countingHooks) OnBuildComplete(context.Context, string, time.Duration, error) {
	h.builds++
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func sampleGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New("sample")
	for _, n := range []dag.Node{
		{Name: "add", OpType: "Add", Inputs: []string{"x"}, Outputs: []string{"a"}},
		{Name: "shape", OpType: "Shape", Inputs: []string{"a"}, Outputs: []string{"s"}},
	} {
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Resolve(); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRunnerScheduleCaches(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	observability.SetScheduleHooks(hooks)
	defer observability.Reset()

	r := NewRunner(newMemCache(), nil, quietLogger())
	g := sampleGraph(t)

	first, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first call should miss the cache")
	}
	if first.Viewer == nil {
		t.Error("first call should build a viewer")
	}
	if first.Schedule.GraphHash == "" {
		t.Error("schedule should carry the graph hash")
	}
	want := []dag.NodeIndex{0, 1}
	if !slices.Equal(first.Schedule.Default, want) {
		t.Errorf("Default = %v, want %v", first.Schedule.Default, want)
	}
	if first.Stats.NodeCount != 2 || first.Stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v, want 2 nodes and 1 edge", first.Stats)
	}

	second, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second call should hit the cache")
	}
	if second.Viewer != nil {
		t.Error("cache hit should not build a viewer")
	}
	if !slices.Equal(second.Schedule.Priority, first.Schedule.Priority) {
		t.Errorf("cached Priority = %v, want %v", second.Schedule.Priority, first.Schedule.Priority)
	}

	if _, err := r.Schedule(context.Background(), g, Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 2 || hooks.builds != 2 {
		t.Errorf("hooks = %+v, want 1 hit, 1 miss, 2 sets, 2 builds", *hooks)
	}
}

func TestRunnerScheduleCorruptEntry(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	g := sampleGraph(t)

	first, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := cache.NewDefaultKeyer().ScheduleKey(first.Schedule.GraphHash)
	_ = c.Set(context.Background(), key, []byte("{not json"), 0)

	res, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("corrupt entry should be recomputed")
	}
}

func TestRunnerScheduleErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	if _, err := r.Schedule(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("nil graph: got %v, want INVALID_ARGUMENT", err)
	}

	g := dag.New("cycle")
	_, _ = g.AddNode(dag.Node{OpType: "A"})
	_, _ = g.AddNode(dag.Node{OpType: "B"})
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 0)
	_, err := r.Schedule(context.Background(), g, Options{})
	if !errors.Is(err, errors.ErrCodeGraphIntegrity) {
		t.Errorf("cycle: got %v, want GRAPH_INTEGRITY", err)
	}
	back, _ := errors.Details(err)["back_edges"].([][2]dag.NodeIndex)
	if want := [][2]dag.NodeIndex{{1, 0}}; !slices.Equal(back, want) {
		t.Errorf("back_edges = %v, want %v", back, want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Schedule(ctx, sampleGraph(t), Options{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestRunnerScheduleNonFiniteInitializer(t *testing.T) {
	const doc = `
name = "nan"
inputs = ["x"]
outputs = ["y"]

[[nodes]]
op_type = "Add"
inputs = ["x", "c"]
outputs = ["y"]

[[initializers]]
name = "c"
data = [nan, inf, -inf, 1.5]
`
	g, err := graph.ReadGraph(strings.NewReader(doc), graph.FormatTOML)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	r := NewRunner(newMemCache(), nil, quietLogger())
	res, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.Schedule.GraphHash == "" {
		t.Error("expected a graph hash")
	}
	if !slices.Equal(res.Schedule.Default, []dag.NodeIndex{0}) {
		t.Errorf("default order = %v, want [0]", res.Schedule.Default)
	}

	again, err := r.Schedule(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}
	if !again.CacheHit {
		t.Error("second schedule should hit the cache")
	}
}
