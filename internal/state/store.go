package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	gosync "sync"
	"time"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source"
)

var (
	// ErrNoSelection is returned by batch commands when no message is selected.
	ErrNoSelection = errors.New("no messages selected")

	// ErrMessageNotFound is returned when an id is not in the local list.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyLabel is returned when a label command is given a blank label.
	ErrEmptyLabel = errors.New("label must not be empty")
)

// Recorder persists the outcome of every network-backed action.
type Recorder interface {
	RecordActivity(ctx context.Context, a model.Activity) error
}

// Cache keeps the last server-acknowledged message list across runs.
type Cache interface {
	ReplaceMessages(ctx context.Context, messages []model.Message) error
	GetMessages(ctx context.Context) ([]model.Message, error)
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder attaches an activity recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithCache attaches a message cache.
func WithCache(c Cache) Option {
	return func(s *Store) { s.cache = c }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store holds the application state and mirrors every mutation to the
// messages API. Network-backed operations await the server before the
// local list changes; a failed call leaves the state untouched.
//
// The mutex is never held across a network call. Operations capture
// their target ids under the lock, release it for the request, and
// re-acquire it to apply the acknowledged change.
type Store struct {
	src      source.MessageSource
	recorder Recorder
	cache    Cache
	logger   *slog.Logger

	mu        gosync.Mutex
	list      messageList
	composing bool
	loaded    bool
}

// New creates a Store backed by the given message source.
func New(src source.MessageSource, opts ...Option) *Store {
	s := &Store{
		src:    src,
		logger: slog.Default(),
		list:   newMessageList(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state, safe to render from.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AppState{
		Messages:  s.list.snapshot(),
		Composing: s.composing,
	}
}

// Message returns a copy of the message with the given id.
func (s *Store) Message(id int) (model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.list.get(id)
	return m.Clone(), ok
}

// SelectedIDs returns the ids of the currently selected messages.
func (s *Store) SelectedIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectedIDs(s.list.items)
}

// Load fetches every message and replaces the local list wholesale.
// On failure the previous list is kept.
func (s *Store) Load(ctx context.Context) error {
	messages, err := s.src.FetchAll(ctx)
	if err != nil {
		s.logger.Error("loading messages", "err", err)
		return fmt.Errorf("loading messages: %w", err)
	}

	s.mu.Lock()
	s.list = newMessageList(messages)
	s.loaded = true
	dropped := len(messages) - len(s.list.items)
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Warn("server returned duplicate message ids", "dropped", dropped)
	}
	s.logger.Info("messages loaded", "count", len(messages)-dropped)
	s.saveCache(ctx)
	return nil
}

// Refresh fetches every message like Load but keeps the selection of
// messages that are still present.
func (s *Store) Refresh(ctx context.Context) error {
	messages, err := s.src.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("refreshing messages", "err", err)
		return fmt.Errorf("refreshing messages: %w", err)
	}

	s.mu.Lock()
	selected := make(map[int]bool)
	for _, id := range SelectedIDs(s.list.items) {
		selected[id] = true
	}
	next := newMessageList(messages)
	for i := range next.items {
		if selected[next.items[i].ID] {
			next.items[i].Selected = true
		}
	}
	s.list = next
	s.loaded = true
	s.mu.Unlock()

	s.saveCache(ctx)
	return nil
}

// Restore seeds the list from the cache. It does nothing once a load
// has succeeded or when no cache is configured.
func (s *Store) Restore(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	messages, err := s.cache.GetMessages(ctx)
	if err != nil {
		return fmt.Errorf("restoring cached messages: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	s.list = newMessageList(messages)
	return nil
}

// ToggleStar flips the starred flag of one message. The request carries
// the message's current starred value as the star flag.
func (s *Store) ToggleStar(ctx context.Context, id int) error {
	s.mu.Lock()
	m, ok := s.list.get(id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("starring message %d: %w", id, ErrMessageNotFound)
	}

	req := model.StarRequest(id, m.Starred)
	if err := s.patch(ctx, req, strconv.FormatBool(m.Starred)); err != nil {
		return err
	}

	s.mu.Lock()
	s.list.update(id, func(cur model.Message) model.Message {
		cur.Starred = !m.Starred
		return cur
	})
	s.mu.Unlock()

	s.saveCache(ctx)
	return nil
}

// ToggleSelect flips the local selection flag of one message.
func (s *Store) ToggleSelect(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.list.update(id, func(m model.Message) model.Message {
		m.Selected = !m.Selected
		return m
	})
	if !ok {
		return fmt.Errorf("selecting message %d: %w", id, ErrMessageNotFound)
	}
	return nil
}

// ToggleSelectAll selects every message unless all are already
// selected, in which case every message is deselected.
func (s *Store) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := !AllSelected(s.list.items)
	for i := range s.list.items {
		s.list.items[i].Selected = target
	}
}

// MarkRead sets the read flag of every selected message to read.
func (s *Store) MarkRead(ctx context.Context, read bool) error {
	ids, err := s.selection(model.CommandRead)
	if err != nil {
		return err
	}

	if err := s.patch(ctx, model.ReadRequest(ids, read), strconv.FormatBool(read)); err != nil {
		return err
	}

	s.applyEach(ids, func(m model.Message) model.Message {
		m.Read = read
		return m
	})
	s.saveCache(ctx)
	return nil
}

// DeleteSelected deletes every selected message.
func (s *Store) DeleteSelected(ctx context.Context) error {
	ids, err := s.selection(model.CommandDelete)
	if err != nil {
		return err
	}

	if err := s.patch(ctx, model.DeleteRequest(ids), ""); err != nil {
		return err
	}

	s.mu.Lock()
	s.list.remove(ids)
	s.mu.Unlock()

	s.saveCache(ctx)
	return nil
}

// AddLabel adds label to every selected message.
func (s *Store) AddLabel(ctx context.Context, label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%s: %w", model.CommandAddLabel, ErrEmptyLabel)
	}
	ids, err := s.selection(model.CommandAddLabel)
	if err != nil {
		return err
	}

	if err := s.patch(ctx, model.AddLabelRequest(ids, label), label); err != nil {
		return err
	}

	s.applyEach(ids, func(m model.Message) model.Message {
		return m.WithLabel(label)
	})
	s.saveCache(ctx)
	return nil
}

// RemoveLabel removes label from every selected message carrying it.
// The label is sent as given; only a blank label is rejected.
func (s *Store) RemoveLabel(ctx context.Context, label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%s: %w", model.CommandRemoveLabel, ErrEmptyLabel)
	}
	ids, err := s.selection(model.CommandRemoveLabel)
	if err != nil {
		return err
	}

	if err := s.patch(ctx, model.RemoveLabelRequest(ids, label), label); err != nil {
		return err
	}

	s.applyEach(ids, func(m model.Message) model.Message {
		return m.WithoutLabel(label)
	})
	s.saveCache(ctx)
	return nil
}

// ToggleCompose flips the compose flag and returns the new value.
func (s *Store) ToggleCompose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composing = !s.composing
	return s.composing
}

// SetComposing sets the compose flag.
func (s *Store) SetComposing(composing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composing = composing
}

// Send creates a message on the server, appends the returned message to
// the list and closes the compose form.
func (s *Store) Send(ctx context.Context, draft model.Draft) (model.Message, error) {
	created, err := s.src.Create(ctx, draft)
	s.record(ctx, model.CommandCreate, nil, draft.Subject, err)
	if err != nil {
		s.logger.Error("sending message", "subject", draft.Subject, "err", err)
		return model.Message{}, fmt.Errorf("sending message: %w", err)
	}

	s.mu.Lock()
	if _, dup := s.list.get(created.ID); dup {
		s.logger.Warn("server reused an existing message id", "id", created.ID)
	}
	s.list.upsert(created)
	s.composing = false
	s.mu.Unlock()

	s.saveCache(ctx)
	return created.Clone(), nil
}

// selection returns the currently selected ids or ErrNoSelection.
func (s *Store) selection(cmd model.CommandName) ([]int, error) {
	s.mu.Lock()
	ids := SelectedIDs(s.list.items)
	s.mu.Unlock()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", cmd, ErrNoSelection)
	}
	return ids, nil
}

// applyEach transforms the acknowledged messages still in the list.
func (s *Store) applyEach(ids []int, fn func(model.Message) model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.list.update(id, fn)
	}
}

// patch sends a command and records its outcome.
func (s *Store) patch(ctx context.Context, req model.PatchRequest, detail string) error {
	err := s.src.Patch(ctx, req)
	s.record(ctx, req.Command, req.MessageIDs, detail, err)
	if err != nil {
		s.logger.Error("command rejected",
			"command", req.Command, "ids", req.MessageIDs, "err", err)
		return fmt.Errorf("%s: %w", req.Command, err)
	}
	s.logger.Debug("command acknowledged", "command", req.Command, "ids", req.MessageIDs)
	return nil
}

func (s *Store) record(
	ctx context.Context,
	cmd model.CommandName,
	ids []int,
	detail string,
	err error,
) {
	if s.recorder == nil {
		return
	}
	a := model.Activity{
		Command:    cmd,
		MessageIDs: append([]int(nil), ids...),
		Detail:     detail,
		Status:     model.ActivityOK,
		CreatedAt:  time.Now(),
	}
	if err != nil {
		a.Status = model.ActivityFailed
		a.Error = source.Describe(err)
	}
	// The action's own context may already be done; the log entry is
	// written regardless.
	if recErr := s.recorder.RecordActivity(context.WithoutCancel(ctx), a); recErr != nil {
		s.logger.Warn("recording activity", "command", cmd, "err", recErr)
	}
}

func (s *Store) saveCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	messages := s.list.snapshot()
	s.mu.Unlock()
	if err := s.cache.ReplaceMessages(context.WithoutCancel(ctx), messages); err != nil {
		s.logger.Warn("updating message cache", "err", err)
	}
}
