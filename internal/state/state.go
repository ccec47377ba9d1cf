package state

import "github.com/nhle/inbox/internal/model"

// AppState is the client-side view of the mailbox: messages in server
// order (creations appended) and whether the compose form is open.
type AppState struct {
	Messages  []model.Message
	Composing bool
}

// SelectedIDs returns the ids of the selected messages in list order.
// It is evaluated against the given list on every call.
func SelectedIDs(messages []model.Message) []int {
	var ids []int
	for _, m := range messages {
		if m.Selected {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// AllSelected reports whether every message is selected. An empty list
// is not considered fully selected.
func AllSelected(messages []model.Message) bool {
	if len(messages) == 0 {
		return false
	}
	for _, m := range messages {
		if !m.Selected {
			return false
		}
	}
	return true
}

// UnreadCount returns the number of unread messages.
func UnreadCount(messages []model.Message) int {
	n := 0
	for _, m := range messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// messageList is an ordered list of messages with an id index. The
// index always mirrors the slice positions.
type messageList struct {
	items []model.Message
	index map[int]int
}

func newMessageList(messages []model.Message) messageList {
	l := messageList{
		items: make([]model.Message, 0, len(messages)),
		index: make(map[int]int, len(messages)),
	}
	for _, m := range messages {
		if _, dup := l.index[m.ID]; dup {
			continue
		}
		l.index[m.ID] = len(l.items)
		l.items = append(l.items, m)
	}
	return l
}

func (l *messageList) get(id int) (model.Message, bool) {
	i, ok := l.index[id]
	if !ok {
		return model.Message{}, false
	}
	return l.items[i], true
}

// update replaces the message with the given id in place.
func (l *messageList) update(id int, fn func(model.Message) model.Message) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.items[i] = fn(l.items[i])
	return true
}

// upsert appends m, or replaces the entry with the same id in place.
func (l *messageList) upsert(m model.Message) {
	if i, ok := l.index[m.ID]; ok {
		l.items[i] = m
		return
	}
	l.index[m.ID] = len(l.items)
	l.items = append(l.items, m)
}

// remove drops the given ids, keeping the relative order of the rest.
func (l *messageList) remove(ids []int) {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := l.items[:0]
	for _, m := range l.items {
		if !drop[m.ID] {
			kept = append(kept, m)
		}
	}
	// Zero the tail so removed messages do not linger in the backing array.
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = model.Message{}
	}
	l.items = kept
	l.reindex()
}

func (l *messageList) reindex() {
	l.index = make(map[int]int, len(l.items))
	for i, m := range l.items {
		l.index[m.ID] = i
	}
}

// snapshot returns a deep copy of the list.
func (l *messageList) snapshot() []model.Message {
	out := make([]model.Message, len(l.items))
	for i, m := range l.items {
		out[i] = m.Clone()
	}
	return out
}
