// Package timer accumulates the time spent in named phases of a run (k-mer extraction, sketching,
// edit distance...) so that they can be reported together at the end
package timer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Phase is the accumulated timing for one name
type Phase struct {
	Name  string
	Calls int
	Total time.Duration
}

// Mean returns the average duration of a call
func (p Phase) Mean() time.Duration {
	if p.Calls == 0 {
		return 0
	}
	return p.Total / time.Duration(p.Calls)
}

// Registry is safe for concurrent use
type Registry struct {
	sync.Mutex
	phases map[string]*Phase
}

// NewRegistry is the constructor
func NewRegistry() *Registry {
	return &Registry{phases: make(map[string]*Phase)}
}

// Start begins timing a call to the named phase, the returned func stops it
func (r *Registry) Start(name string) func() {
	start := time.Now()
	return func() {
		r.Add(name, time.Since(start))
	}
}

// Add records a call of the given duration
func (r *Registry) Add(name string, d time.Duration) {
	r.Lock()
	defer r.Unlock()
	p, ok := r.phases[name]
	if !ok {
		p = &Phase{Name: name}
		r.phases[name] = p
	}
	p.Calls++
	p.Total += d
}

// Phases returns a copy of the phases, sorted by name
func (r *Registry) Phases() []Phase {
	r.Lock()
	defer r.Unlock()
	phases := make([]Phase, 0, len(r.phases))
	for _, p := range r.phases {
		phases = append(phases, *p)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].Name < phases[j].Name })
	return phases
}

// WriteCSV writes one line per phase: name, calls, total and mean time in milliseconds
func (r *Registry) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"phase", "calls", "total_ms", "mean_ms"}); err != nil {
		return err
	}
	for _, p := range r.Phases() {
		record := []string{
			p.Name,
			strconv.Itoa(p.Calls),
			fmt.Sprintf("%.3f", float64(p.Total.Microseconds())/1000),
			fmt.Sprintf("%.3f", float64(p.Mean().Microseconds())/1000),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
