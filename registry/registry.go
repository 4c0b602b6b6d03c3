// Package registry records which grid and field operations a simulation
// invoked, for provenance reporting. The recorder is explicit, injected
// state with defined construction and teardown — nothing in the mesh or
// field packages references it, and no process-wide singleton exists. A
// typical setup registers it with a prometheus registry and installs it as
// the field store's observer.
package registry

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts grid constructions and field operations.
type Recorder struct {
	reg prometheus.Registerer

	fieldOps *prometheus.CounterVec
	grids    *prometheus.CounterVec

	mu     sync.Mutex
	usages map[string]uint64
}

// New creates a Recorder and registers its collectors with reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to publish process-wide.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		reg: reg,
		fieldOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmesh",
			Name:      "field_operations_total",
			Help:      "Field store operations by op, element group, and field name.",
		}, []string{"op", "group", "field"}),
		grids: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmesh",
			Name:      "grid_constructions_total",
			Help:      "Grid constructions by variant.",
		}, []string{"variant"}),
		usages: make(map[string]uint64),
	}
	reg.MustRegister(r.fieldOps, r.grids)
	return r
}

// FieldOp implements field.Observer.
func (r *Recorder) FieldOp(op, group, name string) {
	r.fieldOps.WithLabelValues(op, group, name).Inc()
	r.note("field:" + op + ":" + group + ":" + name)
}

// GridBuilt records a grid construction.
func (r *Recorder) GridBuilt(variant string) {
	r.grids.WithLabelValues(variant).Inc()
	r.note("grid:" + variant)
}

// Usages returns every recorded usage key with its count, sorted by key.
// This is the provenance summary a run report embeds.
func (r *Recorder) Usages() []Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Usage, 0, len(r.usages))
	for k, n := range r.usages {
		out = append(out, Usage{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Usage is one recorded operation kind and how often it ran.
type Usage struct {
	Key   string
	Count uint64
}

// Close unregisters the collectors. A closed Recorder still accepts
// records; they just no longer reach the prometheus registry.
func (r *Recorder) Close() {
	r.reg.Unregister(r.fieldOps)
	r.reg.Unregister(r.grids)
}

func (r *Recorder) note(key string) {
	r.mu.Lock()
	r.usages[key]++
	r.mu.Unlock()
}
