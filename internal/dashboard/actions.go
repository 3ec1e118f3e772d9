package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-bff/internal/models"
	"storefront-bff/internal/resilience"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

var (
	ErrUnknownAction  = errors.New("action must be approve or reject")
	ErrReasonRequired = errors.New("a reason is required")

	// ErrActionPending reports that an approve or reject for the same row is
	// already in flight. Rows are keyed by userId-policyId, so actions on
	// different rows never block each other.
	ErrActionPending = errors.New("an action for this row is already pending")
)

// Actions records operator decisions on policy recommendations. There is no
// optimistic mutation: a successful submit invalidates the cached summary and
// the next dashboard read re-fetches everything.
type Actions struct {
	api      API
	agg      *Aggregator
	inflight *resilience.KeyedInFlight
}

func NewActions(api API, agg *Aggregator) *Actions {
	return &Actions{
		api:      api,
		agg:      agg,
		inflight: resilience.NewKeyedInFlight(),
	}
}

func (a *Actions) Submit(ctx context.Context, req models.PolicyActionRequest) (*models.PolicyActionResult, error) {
	if req.Action != ActionApprove && req.Action != ActionReject {
		return nil, ErrUnknownAction
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	key := fmt.Sprintf("%d-%d", req.UserID, req.PolicyID)

	var result *models.PolicyActionResult
	err := a.inflight.Do(key, func() error {
		res, err := a.api.SubmitPolicyAction(ctx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		if errors.Is(err, resilience.ErrInFlight) {
			return nil, ErrActionPending
		}
		return nil, err
	}

	a.agg.Invalidate(ctx)
	return result, nil
}
