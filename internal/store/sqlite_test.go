package store_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/store"
	"github.com/nhle/inbox/internal/testutil"
)

func TestReplaceAndGetMessages(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := testutil.SampleMessages()
	if err := s.ReplaceMessages(ctx, want); err != nil {
		t.Fatalf("ReplaceMessages: %v", err)
	}

	got, err := s.GetMessages(ctx)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %+v\nwant %+v", got, want)
	}

	// A second snapshot fully replaces the first, order included.
	next := []model.Message{want[2], want[0]}
	if err := s.ReplaceMessages(ctx, next); err != nil {
		t.Fatalf("ReplaceMessages: %v", err)
	}
	got, err = s.GetMessages(ctx)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if !reflect.DeepEqual(got, next) {
		t.Fatalf("messages = %+v\nwant %+v", got, next)
	}
}

func TestReplaceMessagesDropsSelection(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msgs := testutil.SampleMessages()
	msgs[0].Selected = true
	if err := s.ReplaceMessages(ctx, msgs); err != nil {
		t.Fatalf("ReplaceMessages: %v", err)
	}
	got, err := s.GetMessages(ctx)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if got[0].Selected {
		t.Fatal("selection flag must not be cached")
	}
}

func TestReplaceMessagesNilLabels(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceMessages(ctx, []model.Message{{ID: 5}}); err != nil {
		t.Fatalf("ReplaceMessages: %v", err)
	}
	got, err := s.GetMessages(ctx)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if got[0].Labels == nil || len(got[0].Labels) != 0 {
		t.Fatalf("labels = %#v, want empty slice", got[0].Labels)
	}
}

func TestActivityLog(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []model.Activity{
		{Command: model.CommandStar, MessageIDs: []int{1}, Detail: "false", Status: model.ActivityOK, CreatedAt: base},
		{Command: model.CommandDelete, MessageIDs: []int{2, 3}, Status: model.ActivityFailed, Error: "server error 500", CreatedAt: base.Add(time.Minute)},
		{Command: model.CommandAddLabel, MessageIDs: []int{1}, Detail: "work", Status: model.ActivityOK, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range entries {
		if err := s.RecordActivity(ctx, a); err != nil {
			t.Fatalf("RecordActivity: %v", err)
		}
	}

	all, err := s.GetActivities(ctx, store.ActivityFilter{})
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Command != model.CommandAddLabel || all[2].Command != model.CommandStar {
		t.Fatalf("activities not newest first: %v, %v", all[0].Command, all[2].Command)
	}
	if all[0].ID == "" {
		t.Fatal("activity id should be generated")
	}
	if !reflect.DeepEqual(all[1].MessageIDs, []int{2, 3}) {
		t.Fatalf("message ids = %v", all[1].MessageIDs)
	}

	failures, err := s.GetUnseenFailures(ctx)
	if err != nil {
		t.Fatalf("GetUnseenFailures: %v", err)
	}
	if len(failures) != 1 || failures[0].Error != "server error 500" {
		t.Fatalf("failures = %+v", failures)
	}

	if err := s.MarkActivitiesSeen(ctx); err != nil {
		t.Fatalf("MarkActivitiesSeen: %v", err)
	}
	failures, err = s.GetUnseenFailures(ctx)
	if err != nil {
		t.Fatalf("GetUnseenFailures: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures after seen = %+v", failures)
	}

	limited, err := s.GetActivities(ctx, store.ActivityFilter{Limit: 2})
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited len = %d", len(limited))
	}
}

func TestRecordActivityRequiresCommand(t *testing.T) {
	s := testutil.NewTestStore(t)
	if err := s.RecordActivity(context.Background(), model.Activity{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestPruneActivities(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		a := model.Activity{Command: model.CommandRead, MessageIDs: []int{i}, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.RecordActivity(ctx, a); err != nil {
			t.Fatalf("RecordActivity: %v", err)
		}
	}

	if err := s.PruneActivities(ctx, 2); err != nil {
		t.Fatalf("PruneActivities: %v", err)
	}
	left, err := s.GetActivities(ctx, store.ActivityFilter{})
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if len(left) != 2 {
		t.Fatalf("len = %d, want 2", len(left))
	}
	if !reflect.DeepEqual(left[0].MessageIDs, []int{4}) || !reflect.DeepEqual(left[1].MessageIDs, []int{3}) {
		t.Fatalf("kept the wrong entries: %+v", left)
	}
}
