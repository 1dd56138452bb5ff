package plan

import (
	"fmt"
	"sync"

	"github.com/mhmtszr/concurrent-swiss-map"

	"github.com/shigure/anishelf/internal/parse"
)

// Collision detection.
//
// Folders may be planned concurrently, but outputs can collide across
// folders sharing a destination, so one Detector covers the whole run.
// No operation commits before every produced target has been observed.

type bucket struct {
	mu      sync.Mutex
	sources []string
}

// Detector accumulates the full target path set of a run.
type Detector struct {
	mu      sync.Mutex
	targets *csmap.CsMap[string, *bucket]
}

// NewDetector creates an empty collision set.
func NewDetector() *Detector {
	return &Detector{targets: csmap.Create[string, *bucket]()}
}

// Observe records every target of ops. Safe for concurrent use by
// folder planning goroutines.
func (d *Detector) Observe(ops []Operation) {
	for _, op := range ops {
		b, ok := d.targets.Load(op.Target)
		if !ok {
			d.mu.Lock()
			if b, ok = d.targets.Load(op.Target); !ok {
				b = &bucket{}
				d.targets.Store(op.Target, b)
			}
			d.mu.Unlock()
		}
		b.mu.Lock()
		b.sources = append(b.sources, op.Source)
		b.mu.Unlock()
	}
}

// Resolve rewrites ops after the whole run has been observed: every
// entry whose target is produced more than once becomes a
// skip-duplicate and is reported. All colliding entries are excluded;
// nothing is overwritten or auto-renamed.
func (d *Detector) Resolve(ops []Operation) ([]Operation, []parse.Warning) {
	resolved := make([]Operation, len(ops))
	var warnings []parse.Warning
	for i, op := range ops {
		resolved[i] = op
		b, ok := d.targets.Load(op.Target)
		if !ok {
			continue
		}
		b.mu.Lock()
		n := len(b.sources)
		b.mu.Unlock()
		if n > 1 {
			resolved[i].Op = OpSkipDuplicate
			warnings = append(warnings, parse.Warning{
				Code:   parse.WarnDuplicateTarget,
				Path:   op.Source,
				Detail: fmt.Sprintf("%d sources resolve to %q", n, op.Target),
			})
		}
	}
	return resolved, warnings
}
