package domain

import "time"

// ActivityAction identifies the state-changing action an activity record
// describes.
type ActivityAction string

const (
	ActionCreated        ActivityAction = "CREATED"
	ActionUpdated        ActivityAction = "UPDATED"
	ActionPatched        ActivityAction = "PATCHED"
	ActionArchived       ActivityAction = "ARCHIVED"
	ActionRestored       ActivityAction = "RESTORED"
	ActionDeleted        ActivityAction = "DELETED"
	ActionSubtaskAdded   ActivityAction = "SUBTASK_ADDED"
	ActionSubtaskUpdated ActivityAction = "SUBTASK_UPDATED"
	ActionSubtaskDeleted ActivityAction = "SUBTASK_DELETED"
	ActionShareAdded     ActivityAction = "SHARE_ADDED"
	ActionShareUpdated   ActivityAction = "SHARE_UPDATED"
	ActionShareRemoved   ActivityAction = "SHARE_REMOVED"
)

// MaxActivityDetails is the maximum length of an activity details string.
const MaxActivityDetails = 2000

// TodoActivity is an append-only audit record for one state-changing action
// on a todo. Records are never updated or deleted after insertion.
type TodoActivity struct {
	ID          int64          `json:"id"`
	TodoID      string         `json:"todo_id"`
	Action      ActivityAction `json:"action"`
	ActorUserID *string        `json:"actor_user_id,omitempty"`
	Details     string         `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}
