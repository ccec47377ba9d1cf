package model

import "time"

// ActivityStatus records whether the server acknowledged an action.
type ActivityStatus string

const (
	ActivityOK     ActivityStatus = "ok"
	ActivityFailed ActivityStatus = "failed"
)

// Activity is one entry of the local action log. Failed entries that
// have not been seen yet drive the error indicator in the status bar.
type Activity struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`

	// Command is the operation that was sent.
	Command CommandName `json:"command"`

	// MessageIDs are the targets of the operation.
	MessageIDs []int `json:"message_ids"`

	// Detail carries the command argument (label name, read flag).
	Detail string `json:"detail,omitempty"`

	Status ActivityStatus `json:"status"`

	// Error is the failure text when Status is ActivityFailed.
	Error string `json:"error,omitempty"`

	// Seen indicates whether the user has acknowledged a failure.
	Seen bool `json:"seen"`

	CreatedAt time.Time `json:"created_at"`
}

// Failed reports whether the activity records a rejected action.
func (a Activity) Failed() bool { return a.Status == ActivityFailed }
