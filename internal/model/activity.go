package model

import "time"

// Audit actions recorded for privileged mutations.  The values are stored
// verbatim in activity_logs.action and used as filter values on the admin
// activity-log endpoint.
const (
	ActionUpdateUser        = "UPDATE_USER"
	ActionChangePassword    = "CHANGE_PASSWORD"
	ActionUpdatePermissions = "UPDATE_PERMISSIONS"
	ActionCreateAvatar      = "CREATE_AVATAR"
	ActionUpdateAvatar      = "UPDATE_AVATAR"
	ActionDeleteAvatar      = "DELETE_AVATAR"
)

// ActivityLogEntry is an append-only audit record in the `activity_logs`
// table.  Rows are never updated or deleted after insertion and are listed
// newest-first.
type ActivityLogEntry struct {
	ID          uint64
	ActorID     uint64
	Action      string
	TargetID    *uint64
	Description string
	Metadata    map[string]any
	IP          string
	UserAgent   string
	CreatedAt   time.Time

	// Joined display fields, populated only on the read path.
	ActorEmail  string
	ActorName   string
	TargetEmail string
	TargetName  string
}
