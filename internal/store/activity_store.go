package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/inbox/internal/model"
)

// activityRow is the stored form of a model.Activity.
type activityRow struct {
	ID         string    `db:"id"`
	Command    string    `db:"command"`
	MessageIDs string    `db:"message_ids"`
	Detail     string    `db:"detail"`
	Status     string    `db:"status"`
	Error      string    `db:"error"`
	Seen       bool      `db:"seen"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r activityRow) toModel() (model.Activity, error) {
	a := model.Activity{
		ID:        r.ID,
		Command:   model.CommandName(r.Command),
		Detail:    r.Detail,
		Status:    model.ActivityStatus(r.Status),
		Error:     r.Error,
		Seen:      r.Seen,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.MessageIDs), &a.MessageIDs); err != nil {
		return model.Activity{}, fmt.Errorf("unmarshaling message_ids of activity %s: %w", r.ID, err)
	}
	return a, nil
}

// RecordActivity inserts a log entry. Generates a UUID if ID is empty.
func (s *SQLiteStore) RecordActivity(ctx context.Context, a model.Activity) error {
	if a.Command == "" {
		return fmt.Errorf("activity command must not be empty")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = model.ActivityOK
	}
	ids := a.MessageIDs
	if ids == nil {
		ids = []int{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling message ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activities (id, command, message_ids, detail, status, error, seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Command), string(idsJSON), a.Detail,
		string(a.Status), a.Error, boolToInt(a.Seen), a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// GetActivities retrieves log entries newest first.
func (s *SQLiteStore) GetActivities(
	ctx context.Context,
	filter ActivityFilter,
) ([]model.Activity, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.UnseenOnly {
		conditions = append(conditions, "seen = 0")
	}

	query := "SELECT * FROM activities"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}

	activities := make([]model.Activity, 0, len(rows))
	for _, r := range rows {
		a, err := r.toModel()
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// GetUnseenFailures returns failed actions the user has not acknowledged.
func (s *SQLiteStore) GetUnseenFailures(ctx context.Context) ([]model.Activity, error) {
	failed := model.ActivityFailed
	return s.GetActivities(ctx, ActivityFilter{Status: &failed, UnseenOnly: true})
}

// MarkActivitiesSeen acknowledges every entry in the log.
func (s *SQLiteStore) MarkActivitiesSeen(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE activities SET seen = 1 WHERE seen = 0"); err != nil {
		return fmt.Errorf("marking activities seen: %w", err)
	}
	return nil
}

// PruneActivities keeps only the newest keep entries.
func (s *SQLiteStore) PruneActivities(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM activities WHERE id NOT IN (
			SELECT id FROM activities ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("pruning activities: %w", err)
	}
	return nil
}
