package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/harborline/harborline/internal/store"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpirySweep deactivates buy rates and sailings that fell out of
	// their validity window.
	TaskExpirySweep = "catalog:expire"
)

// ExpirySweepPayload scopes one sweep run. A zero cutoff means "now".
type ExpirySweepPayload struct {
	Cutoff time.Time `json:"cutoff"`
}

// NewExpirySweepTask constructs an Asynq task.
func NewExpirySweepTask(payload ExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpirySweep, data), nil
}

// Expirer is implemented by the catalog services the sweep closes out.
type Expirer interface {
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NewExpirySweepHandler binds the sweep to the catalog services. The
// record store is process-local, so the handler must run inside the same
// process that serves HTTP.
func NewExpirySweepHandler(logger *slog.Logger, clock store.Clock, rates, schedules Expirer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ExpirySweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		cutoff := payload.Cutoff
		if cutoff.IsZero() {
			cutoff = clock()
		}
		expiredRates, err := rates.ExpireBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		expiredSchedules, err := schedules.ExpireBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("expiry sweep finished",
			slog.Time("cutoff", cutoff),
			slog.Int("rates_closed", expiredRates),
			slog.Int("schedules_closed", expiredSchedules))
		return nil
	}
}
