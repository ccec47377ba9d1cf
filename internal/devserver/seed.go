package devserver

import "github.com/nhle/inbox/internal/model"

// Seed returns the mailbox `inbox serve` starts with.
func Seed() []model.Message {
	return []model.Message{
		{ID: 1, Subject: "Welcome to your inbox", Body: "Select messages with space, then act on them with R, U, d or l.", Labels: []string{}},
		{ID: 2, Subject: "Standup moved to 10:30", Body: "Same room, new time.", Starred: true, Labels: []string{"work"}},
		{ID: 3, Subject: "Your invoice for March", Body: "The invoice is attached as a PDF.", Read: true, Labels: []string{"personal"}},
		{ID: 4, Subject: "Deploy checklist", Body: "1. Tag the release\n2. Run migrations\n3. Watch the dashboards", Labels: []string{"dev", "work"}},
		{ID: 5, Subject: "Lunch on Friday?", Body: "Thinking tacos.", Read: true, Starred: true, Labels: []string{"personal"}},
		{ID: 6, Subject: "Flaky test in CI", Body: "TestRefresh fails roughly once a day on the arm runners.", Labels: []string{"dev"}},
	}
}
