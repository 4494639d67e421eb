package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-timeclock/internal/events"
	"go-timeclock/internal/shared/audit"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	minFetchBackoff = 200 * time.Millisecond
	maxFetchBackoff = 10 * time.Second
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumePunchEvents reads the punch topic and records an audit entry for
// every flagged punch, whether the geofence check or the client raised the
// flag. Undecodable messages are committed and skipped. Fetch errors
// back off exponentially up to maxFetchBackoff.
func ConsumePunchEvents(
	ctx context.Context,
	reader MessageReader,
	auditLogger audit.Logger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.punch_flag_review")
	log.Info("punch flag review consumer started")

	backoff := minFetchBackoff
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("punch flag review consumer stopped")
				return
			}
			log.Error("fetch punch message failed", zap.Duration("retry_in", backoff), zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("punch flag review consumer stopped")
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxFetchBackoff)
			continue
		}
		backoff = minFetchBackoff

		var event events.PunchEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode punch event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Flagged && event.EventType == events.EventPunchRecorded {
			auditLogger.Log(ctx, audit.Entry{
				Action:  "PUNCH_FLAGGED",
				ActorID: event.EmployeeID,
				Message: "punch flagged for review",
				Meta: map[string]any{
					"punch_id":   event.PunchID,
					"punch_type": event.PunchType,
					"timestamp":  event.Timestamp,
					"source":     event.Source,
				},
			})
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit punch message failed", zap.Error(err))
			continue
		}
	}
}
