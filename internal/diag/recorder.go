package diag

import (
	"context"
	"time"

	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/greeter"
	"github.com/airenas/hello-form/internal/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Journal keeps failure entries for later inspection
type Journal interface {
	Add(ctx context.Context, entry *api.FailureEntry) error
	List(ctx context.Context, limit int) ([]*api.FailureEntry, error)
}

// Recorder is the diagnostic log of the form handler. Failures never reach the user, they end up here.
// journal and metrics may be nil.
type Recorder struct {
	log     zerolog.Logger
	journal Journal
	metrics *Metrics
}

// NewRecorder creates a recorder
func NewRecorder(log zerolog.Logger, journal Journal, metrics *Metrics) *Recorder {
	return &Recorder{log: log, journal: journal, metrics: metrics}
}

// Failure writes the failure detail once to the log and to the journal
func (r *Recorder) Failure(ctx context.Context, detail string) {
	session := utils.SessionID(ctx)
	r.log.Error().Str("session", session).Str("detail", detail).Msg("submission failed")
	r.count(greeter.Failure)
	if r.journal == nil {
		return
	}
	entry := &api.FailureEntry{ID: ulid.Make().String(), Session: session, Time: time.Now().UTC(), Detail: detail}
	if err := r.journal.Add(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("id", entry.ID).Msg("can't save failure to journal")
	}
}

// Success notes a displayed greeting
func (r *Recorder) Success(ctx context.Context, greeting string) {
	r.log.Debug().Str("session", utils.SessionID(ctx)).Str("greeting", greeting).Msg("greeting shown")
	r.count(greeter.Success)
}

// Dropped notes a submission or result discarded by policy
func (r *Recorder) Dropped(ctx context.Context, policy, reason string) {
	r.log.Debug().Str("session", utils.SessionID(ctx)).Str("policy", policy).Str("reason", reason).Msg("dropped")
	if r.metrics != nil {
		r.metrics.dropped.WithLabelValues(policy).Inc()
	}
}

// Started marks a request start, call Finished after it completes
func (r *Recorder) Started() {
	if r.metrics != nil {
		r.metrics.inFlight.Inc()
	}
}

// Finished marks a request completion
func (r *Recorder) Finished() {
	if r.metrics != nil {
		r.metrics.inFlight.Dec()
	}
}

// Failures lists journal entries, newest first
func (r *Recorder) Failures(ctx context.Context, limit int) ([]*api.FailureEntry, error) {
	if r.journal == nil {
		return []*api.FailureEntry{}, nil
	}
	return r.journal.List(ctx, limit)
}

func (r *Recorder) count(k greeter.Kind) {
	if r.metrics != nil {
		r.metrics.submissions.WithLabelValues(k.String()).Inc()
	}
}
