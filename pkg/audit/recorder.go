package audit

import (
	"context"

	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/pubsub"
)

// Record logs every building mutation the engine publishes until ctx is
// done or the engine closes. The subscription is in place when Record
// returns, so later mutations are not missed.
func Record(ctx context.Context, engine *habitat.Engine, l *AuditLogger, logger logging.Logger) error {
	logger = logging.OrNop(logger).With(logging.Component("audit"))

	sub, err := engine.Events().Subscribe(ctx, pubsub.TopicBuildingUpdated)
	if err != nil {
		return err
	}

	go func() {
		for ev := range sub.Channel() {
			event := FromEngineEvent(ev)
			if err := l.Log(event); err != nil {
				logger.Warn("failed to record change", logging.Error(err))
				continue
			}
			logger.Debug("recorded change",
				logging.String("action", string(event.Action)),
				logging.Int("habitable", event.Habitable))
		}
	}()
	return nil
}

// FromEngineEvent converts a published engine event.
func FromEngineEvent(ev habitat.Event) *Event {
	return &Event{
		Timestamp: ev.At,
		Action:    Action(ev.Kind),
		Building:  ev.Evaluation.Building,
		Status:    StatusSuccess,
		Habitable: ev.Evaluation.Habitable,
		Spaces:    len(ev.Evaluation.Spaces),
		Failing:   ev.Evaluation.Failing(),
		Metadata: map[string]any{
			"warnings": len(ev.Evaluation.Warnings),
		},
	}
}
