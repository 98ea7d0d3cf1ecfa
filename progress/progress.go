package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/mint/internal/clock"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Requested  int
	Issued     int
	Stamped    int
	Rasterized int
	Failed     int
}

// Progress keeps counters for one mint run. It is safe for concurrent use.
type Progress struct {
	RunID     string
	Batch     string
	StartedAt time.Time

	Requested  int
	Issued     int
	Stamped    int
	Rasterized int
	Failed     int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the delta. The onChange callback, if any, receives a copy
// taken under the lock and runs outside of it.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Requested += d.Requested
	p.Issued += d.Issued
	p.Stamped += d.Stamped
	p.Rasterized += d.Rasterized
	p.Failed += d.Failed
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// Done reports whether every requested note was issued
func (p Progress) Done() bool {
	return p.Requested > 0 && p.Issued >= p.Requested
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		RunID:      p.RunID,
		Batch:      p.Batch,
		StartedAt:  p.StartedAt,
		Requested:  p.Requested,
		Issued:     p.Issued,
		Stamped:    p.Stamped,
		Rasterized: p.Rasterized,
		Failed:     p.Failed,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, runID, batch string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		Batch:     batch,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
