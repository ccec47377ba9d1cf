package testutil

import (
	"testing"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SampleMessages returns a small mailbox fixture in server order.
func SampleMessages() []model.Message {
	return []model.Message{
		{
			ID:      1,
			Subject: "You can't input the protocol without calculating the mobile RSS protocol!",
			Body:    "Hey, it's me.",
			Read:    false,
			Starred: true,
			Labels:  []string{"dev", "personal"},
		},
		{
			ID:      2,
			Subject: "connecting the system won't do anything, we need to input the mobile AI panel!",
			Body:    "Quarterly numbers attached.",
			Read:    false,
			Starred: false,
			Labels:  []string{},
		},
		{
			ID:      3,
			Subject: "Use the 1080p HTTP feed, then you can parse the cross-platform hard drive!",
			Body:    "See you at standup.",
			Read:    true,
			Starred: false,
			Labels:  []string{"dev"},
		},
	}
}
