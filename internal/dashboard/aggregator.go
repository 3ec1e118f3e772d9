package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront-bff/internal/models"
)

// Selection pins a dashboard read to a report date, prediction horizon and
// high-risk list page.
type Selection struct {
	ReportDt    string
	HorizonDays int
	Page        int
	PerPage     int
}

func (s Selection) cacheKey() string {
	return fmt.Sprintf("dashboard:summary:%s:%d:%d:%d", s.ReportDt, s.HorizonDays, s.Page, s.PerPage)
}

// API is the slice of the upstream client the dashboard uses.
type API interface {
	OverallChurn(ctx context.Context, reportDt string, horizonDays int) (*models.ChurnOverall, error)
	RFMSegments(ctx context.Context, reportDt string, horizonDays int) (*models.RFMReport, error)
	RiskDistribution(ctx context.Context, reportDt string, horizonDays int) (*models.RiskDistribution, error)
	HighRiskUsers(ctx context.Context, reportDt string, horizonDays, page, perPage int) (*models.HighRiskPage, error)
	SubmitPolicyAction(ctx context.Context, req models.PolicyActionRequest) (*models.PolicyActionResult, error)
}

// ReportCache stores rendered summaries between reads. Satisfied by the redis
// cache client; nil disables caching.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Aggregator fans four independent report fetches out to the upstream and
// composes them into one summary. If any report fails the whole read fails;
// the dashboard never renders a partial set of KPIs.
type Aggregator struct {
	api   API
	cache ReportCache
	ttl   time.Duration

	mu   sync.Mutex
	keys map[string]struct{}
}

func NewAggregator(api API, cache ReportCache, ttl time.Duration) *Aggregator {
	return &Aggregator{
		api:   api,
		cache: cache,
		ttl:   ttl,
		keys:  make(map[string]struct{}),
	}
}

func (a *Aggregator) Summary(ctx context.Context, sel Selection) (*models.DashboardSummary, error) {
	key := sel.cacheKey()

	if a.cache != nil {
		if data, err := a.cache.Get(ctx, key); err == nil {
			var cached models.DashboardSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary := &models.DashboardSummary{
		ReportDt:    sel.ReportDt,
		HorizonDays: sel.HorizonDays,
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		fetchErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { fetchErr = err })
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		res, err := a.api.OverallChurn(ctx, sel.ReportDt, sel.HorizonDays)
		if err != nil {
			fail(fmt.Errorf("overall churn: %w", err))
			return
		}
		summary.Overall = res
	}()

	go func() {
		defer wg.Done()
		res, err := a.api.RFMSegments(ctx, sel.ReportDt, sel.HorizonDays)
		if err != nil {
			fail(fmt.Errorf("rfm segments: %w", err))
			return
		}
		summary.RFM = res
	}()

	go func() {
		defer wg.Done()
		res, err := a.api.RiskDistribution(ctx, sel.ReportDt, sel.HorizonDays)
		if err != nil {
			fail(fmt.Errorf("risk distribution: %w", err))
			return
		}
		summary.Distribution = res
	}()

	go func() {
		defer wg.Done()
		res, err := a.api.HighRiskUsers(ctx, sel.ReportDt, sel.HorizonDays, sel.Page, sel.PerPage)
		if err != nil {
			fail(fmt.Errorf("high-risk users: %w", err))
			return
		}
		summary.HighRisk = res
	}()

	wg.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}

	if a.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
				slog.Warn("dashboard cache write failed", "key", key, "error", err)
			} else {
				a.mu.Lock()
				a.keys[key] = struct{}{}
				a.mu.Unlock()
			}
		}
	}

	return summary, nil
}

// Invalidate drops every cached summary. Called after a policy action so the
// next read reflects the recorded decision.
func (a *Aggregator) Invalidate(ctx context.Context) {
	if a.cache == nil {
		return
	}

	a.mu.Lock()
	keys := make([]string, 0, len(a.keys))
	for k := range a.keys {
		keys = append(keys, k)
	}
	a.keys = make(map[string]struct{})
	a.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	if err := a.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("dashboard cache invalidation failed", "error", err)
	}
}
