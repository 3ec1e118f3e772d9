package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bff/internal/models"
)

type stubAPI struct {
	mu sync.Mutex

	overallErr  error
	rfmErr      error
	distErr     error
	highRiskErr error

	// delayFor stalls every report fetch for the given horizon, to stage
	// overlapping refreshes.
	delayFor map[int]time.Duration

	actionCalls []models.PolicyActionRequest
	actionErr   error
}

func (s *stubAPI) delay(horizonDays int) {
	s.mu.Lock()
	d := s.delayFor[horizonDays]
	s.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}
}

func (s *stubAPI) OverallChurn(ctx context.Context, reportDt string, horizonDays int) (*models.ChurnOverall, error) {
	s.delay(horizonDays)
	if s.overallErr != nil {
		return nil, s.overallErr
	}
	return &models.ChurnOverall{ReportDt: reportDt, HorizonDays: horizonDays, ChurnRate: 0.1325}, nil
}

func (s *stubAPI) RFMSegments(ctx context.Context, reportDt string, horizonDays int) (*models.RFMReport, error) {
	s.delay(horizonDays)
	if s.rfmErr != nil {
		return nil, s.rfmErr
	}
	return &models.RFMReport{ReportDt: reportDt, HorizonDays: horizonDays,
		Segments: []models.RFMSegment{{Bucket: "High(10-12)", Customers: 12000}}}, nil
}

func (s *stubAPI) RiskDistribution(ctx context.Context, reportDt string, horizonDays int) (*models.RiskDistribution, error) {
	s.delay(horizonDays)
	if s.distErr != nil {
		return nil, s.distErr
	}
	return &models.RiskDistribution{ReportDt: reportDt, HorizonDays: horizonDays,
		Bands: []models.RiskBand{{RiskBand: "VH", UserCount: 8200}}}, nil
}

func (s *stubAPI) HighRiskUsers(ctx context.Context, reportDt string, horizonDays, page, perPage int) (*models.HighRiskPage, error) {
	s.delay(horizonDays)
	if s.highRiskErr != nil {
		return nil, s.highRiskErr
	}
	return &models.HighRiskPage{ReportDt: reportDt, HorizonDays: horizonDays, Total: 18450}, nil
}

func (s *stubAPI) SubmitPolicyAction(ctx context.Context, req models.PolicyActionRequest) (*models.PolicyActionResult, error) {
	s.mu.Lock()
	s.actionCalls = append(s.actionCalls, req)
	s.mu.Unlock()
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	return &models.PolicyActionResult{UserID: req.UserID, PolicyID: req.PolicyID, Status: req.Action + "d"}, nil
}

func (s *stubAPI) actionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actionCalls)
}

func sel(horizon int) Selection {
	return Selection{ReportDt: "2025-08-29", HorizonDays: horizon, Page: 1, PerPage: 10}
}

func TestSummaryComposesAllFourReports(t *testing.T) {
	agg := NewAggregator(&stubAPI{}, nil, 0)

	summary, err := agg.Summary(context.Background(), sel(30))
	require.NoError(t, err)
	assert.NotNil(t, summary.Overall)
	assert.NotNil(t, summary.RFM)
	assert.NotNil(t, summary.Distribution)
	assert.NotNil(t, summary.HighRisk)
	assert.Equal(t, 30, summary.HorizonDays)
}

func TestSummaryFailsWhenAnyReportFails(t *testing.T) {
	api := &stubAPI{distErr: errors.New("mart unavailable")}
	agg := NewAggregator(api, nil, 0)

	_, err := agg.Summary(context.Background(), sel(30))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk distribution")
}

func TestViewSupersededFetchCannotOverwriteNewer(t *testing.T) {
	api := &stubAPI{delayFor: map[int]time.Duration{7: 50 * time.Millisecond}}
	agg := NewAggregator(api, nil, 0)
	view := NewView()

	var wg sync.WaitGroup
	wg.Add(2)

	// The 7d refresh starts first but settles last.
	go func() {
		defer wg.Done()
		_, _ = view.Refresh(context.Background(), agg, sel(7))
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		_, _ = view.Refresh(context.Background(), agg, sel(30))
	}()

	wg.Wait()

	current := view.Current()
	require.NotNil(t, current)
	assert.Equal(t, 30, current.HorizonDays, "the newer selection must win")
}

func TestActionRequiresReason(t *testing.T) {
	api := &stubAPI{}
	actions := NewActions(api, NewAggregator(api, nil, 0))

	_, err := actions.Submit(context.Background(), models.PolicyActionRequest{
		UserID: 100023, PolicyID: 3, Action: ActionApprove, Reason: "   ",
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Zero(t, api.actionCount(), "a cancelled prompt must not reach the upstream")
}

func TestActionRejectsUnknownVerb(t *testing.T) {
	api := &stubAPI{}
	actions := NewActions(api, NewAggregator(api, nil, 0))

	_, err := actions.Submit(context.Background(), models.PolicyActionRequest{
		UserID: 1, PolicyID: 1, Action: "defer", Reason: "later",
	})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActionSubmitsAndReports(t *testing.T) {
	api := &stubAPI{}
	actions := NewActions(api, NewAggregator(api, nil, 0))

	result, err := actions.Submit(context.Background(), models.PolicyActionRequest{
		UserID: 100023, PolicyID: 3, Action: ActionReject, Reason: "customer already contacted",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejectd", result.Status)
	assert.Equal(t, 1, api.actionCount())
}

func TestActionsOnSameRowAreMutuallyExclusive(t *testing.T) {
	api := &stubAPI{}
	actions := NewActions(api, NewAggregator(api, nil, 0))

	release := make(chan struct{})
	started := make(chan struct{})
	api.actionErr = nil

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Hold the row's slot open by blocking inside the upstream call.
		blockingAPI := &blockingActionAPI{stubAPI: api, started: started, release: release}
		blockingActions := actionsWithAPI(actions, blockingAPI)
		_, _ = blockingActions.Submit(context.Background(), models.PolicyActionRequest{
			UserID: 100023, PolicyID: 3, Action: ActionApprove, Reason: "retain",
		})
	}()

	<-started
	_, err := actionsWithAPI(actions, api).Submit(context.Background(), models.PolicyActionRequest{
		UserID: 100023, PolicyID: 3, Action: ActionReject, Reason: "no",
	})
	assert.ErrorIs(t, err, ErrActionPending)

	// A different row proceeds while the first is still pending.
	_, err = actionsWithAPI(actions, api).Submit(context.Background(), models.PolicyActionRequest{
		UserID: 555, PolicyID: 9, Action: ActionApprove, Reason: "retain",
	})
	assert.NoError(t, err)

	close(release)
	wg.Wait()

	// The row re-enables once the first request settles.
	_, err = actionsWithAPI(actions, api).Submit(context.Background(), models.PolicyActionRequest{
		UserID: 100023, PolicyID: 3, Action: ActionReject, Reason: "no",
	})
	assert.NoError(t, err)
}

// blockingActionAPI parks SubmitPolicyAction until released, so tests can
// observe the in-flight state.
type blockingActionAPI struct {
	*stubAPI
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingActionAPI) SubmitPolicyAction(ctx context.Context, req models.PolicyActionRequest) (*models.PolicyActionResult, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.stubAPI.SubmitPolicyAction(ctx, req)
}

// actionsWithAPI swaps the upstream behind an Actions instance while keeping
// its in-flight registry, mirroring one dashboard with one table.
func actionsWithAPI(a *Actions, api API) *Actions {
	return &Actions{api: api, agg: a.agg, inflight: a.inflight}
}
