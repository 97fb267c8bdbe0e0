// Package audit appends the activity log for privileged mutations.  The
// write is deliberately non-fatal: losing an audit entry is preferable to
// blocking a legitimate admin action, so failures go to the operational
// log and the enclosing request still succeeds.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/queue"
)

// ActivityStore is the append half of the activity repository.
type ActivityStore interface {
	Insert(ctx context.Context, e model.ActivityLogEntry) error
}

// PublishFunc sends the recorded event to the message broker.  The
// concrete implementation is queue_publisher.PublishActivityRecorded; nil
// disables publishing.
type PublishFunc func(ctx context.Context, ev queue.ActivityRecordedEvent) error

// Auditor records privileged mutations.
type Auditor struct {
	Logs    ActivityStore
	Publish PublishFunc
	Log     *zap.Logger
}

func New(logs ActivityStore, publish PublishFunc, log *zap.Logger) *Auditor {
	return &Auditor{Logs: logs, Publish: publish, Log: log}
}

// Record appends one audit entry.  It never returns an error: a failed
// database insert is logged and swallowed, and the broker publish is
// best-effort on top of that.  Callers therefore audit after their
// mutation commits and report success regardless.
func (a *Auditor) Record(ctx context.Context, actor model.User, action string, targetID *uint64, description string, metadata map[string]any, ip, userAgent string) {
	entry := model.ActivityLogEntry{
		ActorID:     actor.ID,
		Action:      action,
		TargetID:    targetID,
		Description: description,
		Metadata:    metadata,
		IP:          ip,
		UserAgent:   userAgent,
	}
	if err := a.Logs.Insert(ctx, entry); err != nil {
		a.Log.Error("audit write failed",
			zap.Uint64("actor_id", actor.ID),
			zap.String("action", action),
			zap.Error(err))
		return
	}
	if a.Publish == nil {
		return
	}
	ev := queue.ActivityRecordedEvent{
		ActorID:     actor.ID,
		ActorEmail:  actor.Email,
		Action:      action,
		TargetID:    targetID,
		Description: description,
		Metadata:    metadata,
		IP:          ip,
		UserAgent:   userAgent,
		RecordedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.Publish(ctx, ev); err != nil {
		a.Log.Warn("audit event publish failed", zap.String("action", action), zap.Error(err))
	}
}
