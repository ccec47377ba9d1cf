package store

import (
	"context"

	"github.com/nhle/inbox/internal/model"
)

// ActivityFilter controls which log entries GetActivities returns.
type ActivityFilter struct {
	Status     *model.ActivityStatus
	UnseenOnly bool
	Limit      int
}

// Store defines the local persistence interface: the last
// server-acknowledged message snapshot and the action log.
type Store interface {
	// === Message cache ===

	ReplaceMessages(ctx context.Context, messages []model.Message) error
	GetMessages(ctx context.Context) ([]model.Message, error)

	// === Activity log ===

	RecordActivity(ctx context.Context, a model.Activity) error
	GetActivities(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
	GetUnseenFailures(ctx context.Context) ([]model.Activity, error)
	MarkActivitiesSeen(ctx context.Context) error
	PruneActivities(ctx context.Context, keep int) error
}
