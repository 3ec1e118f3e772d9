package dashboard

import (
	"context"
	"sync"

	"storefront-bff/internal/models"
)

// View holds the dashboard's current selection and result. Each Refresh is
// stamped with a generation; a fetch that settles after the selection has
// moved on returns its data to its own caller but never overwrites the
// current result. This is what keeps a slow 7-day fetch from clobbering a
// newer 30-day one.
type View struct {
	mu      sync.Mutex
	gen     uint64
	current *models.DashboardSummary
}

func NewView() *View {
	return &View{}
}

func (v *View) Refresh(ctx context.Context, agg *Aggregator, sel Selection) (*models.DashboardSummary, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	summary, err := agg.Summary(ctx, sel)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if gen == v.gen {
		v.current = summary
	}
	v.mu.Unlock()

	return summary, nil
}

// Current returns the most recently published summary, or nil before the
// first successful refresh.
func (v *View) Current() *models.DashboardSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
