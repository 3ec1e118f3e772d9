package analytics

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"storefront-bff/internal/models"
	"storefront-bff/internal/resilience"
)

const (
	anonCookie    = "anon_id"
	sessionCookie = "session_id"
)

// Tracker forwards navigation beacons to the upstream log sink. Beacons are
// best-effort: the browser gets its 204 immediately and delivery failures are
// logged and dropped. A circuit breaker keeps a dead sink from tying up
// goroutines on every page view.
type Tracker struct {
	client  *resty.Client
	breaker *resilience.CircuitBreaker
}

func NewTracker(sinkURL string) *Tracker {
	return &Tracker{
		client: resty.New().
			SetBaseURL(sinkURL).
			SetTimeout(3 * time.Second),
		breaker: resilience.NewCircuitBreaker(3, 30*time.Second),
	}
}

// EnsureIdentity returns the request's anonymous and session ids, minting and
// setting cookies for whichever are missing. The anonymous id outlives the
// session; the session id dies with the browser session.
func EnsureIdentity(w http.ResponseWriter, r *http.Request) (anonID, sessionID string) {
	if ck, err := r.Cookie(anonCookie); err == nil && ck.Value != "" {
		anonID = ck.Value
	} else {
		anonID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     anonCookie,
			Value:    anonID,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if ck, err := r.Cookie(sessionCookie); err == nil && ck.Value != "" {
		sessionID = ck.Value
	} else {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return anonID, sessionID
}

// Forward delivers the event asynchronously.
func (t *Tracker) Forward(event models.TrackEvent, anonID, sessionID string) {
	go func() {
		err := t.breaker.Execute(func() error {
			resp, err := t.client.R().
				SetHeader("X-Request-Id", uuid.NewString()).
				SetHeader("X-Anon-Id", anonID).
				SetHeader("X-Session-Id", sessionID).
				SetBody(event).
				Post("/log/track")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("log sink returned %d", resp.StatusCode())
			}
			return nil
		})
		if err != nil {
			slog.Debug("beacon dropped", "event", event.EventName, "error", err)
		}
	}()
}
