package model

import "sort"

// Message is a single mail item as served by the messages API, plus the
// client-only selection flag.
type Message struct {
	// ID is assigned by the server and unique within a mailbox listing.
	ID int `json:"id"`

	Subject string `json:"subject"`
	Body    string `json:"body"`

	Read    bool `json:"read"`
	Starred bool `json:"starred"`

	// Selected marks the message as a target of the next batch command.
	// It is never part of a request payload.
	Selected bool `json:"selected,omitempty"`

	// Labels is kept sorted and free of duplicates after any add.
	Labels []string `json:"labels"`
}

// Draft is the body of a create request.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Clone returns a copy of m that shares no label storage with m.
func (m Message) Clone() Message {
	if m.Labels != nil {
		labels := make([]string, len(m.Labels))
		copy(labels, m.Labels)
		m.Labels = labels
	}
	return m
}

// HasLabel reports whether label is present on m.
func (m Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// WithLabel returns m with label added. The result is sorted and unique.
// A message already carrying label is returned unchanged.
func (m Message) WithLabel(label string) Message {
	if m.HasLabel(label) {
		return m
	}
	labels := make([]string, 0, len(m.Labels)+1)
	labels = append(labels, m.Labels...)
	labels = append(labels, label)
	m.Labels = normalizeLabels(labels)
	return m
}

// WithoutLabel returns m with label removed, if present.
func (m Message) WithoutLabel(label string) Message {
	if !m.HasLabel(label) {
		return m
	}
	labels := make([]string, 0, len(m.Labels)-1)
	for _, l := range m.Labels {
		if l != label {
			labels = append(labels, l)
		}
	}
	m.Labels = labels
	return m
}

// normalizeLabels sorts labels and drops duplicates in place.
func normalizeLabels(labels []string) []string {
	sort.Strings(labels)
	out := labels[:0]
	for _, l := range labels {
		if len(out) > 0 && out[len(out)-1] == l {
			continue
		}
		out = append(out, l)
	}
	return out
}
