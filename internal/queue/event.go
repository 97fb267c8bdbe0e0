// Package queue defines message payloads exchanged over the message broker.
package queue

// ActivityRecordedEvent is published after an audit entry is written for a
// privileged mutation.  It carries enough for downstream consumers to
// build an operational trail without querying the primary database.
type ActivityRecordedEvent struct {
	ActorID     uint64         `json:"actor_id"`
	ActorEmail  string         `json:"actor_email"`
	Action      string         `json:"action"`
	TargetID    *uint64        `json:"target_id,omitempty"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IP          string         `json:"ip"`
	UserAgent   string         `json:"user_agent"`
	RecordedAt  string         `json:"recorded_at"`
}
