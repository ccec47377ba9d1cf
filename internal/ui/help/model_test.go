package help

import (
	"strings"
	"testing"

	"github.com/nhle/inbox/internal/keys"
)

func TestViewListsKeysAndCommands(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	view := m.View()

	for _, want := range []string{"Keyboard Shortcuts", "star", "Commands (:)", "export <path>", "selected messages"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}
