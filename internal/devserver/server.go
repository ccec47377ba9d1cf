// Package devserver serves an in-memory mailbox over the messages API.
// It backs `inbox serve` and the client integration tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source/inbox"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server holds the mailbox and serializes every mutation.
type Server struct {
	mu       sync.Mutex
	messages []model.Message
	logger   *slog.Logger
}

// New creates a Server seeded with a copy of messages.
func New(messages []model.Message, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	seed := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		m = m.Clone()
		m.Selected = false
		if m.Labels == nil {
			m.Labels = []string{}
		}
		seed = append(seed, m)
	}
	return &Server{messages: seed, logger: logger}
}

// Messages returns a copy of the current mailbox.
func (s *Server) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Handler returns the routed API with request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.logger.Info("handled",
				"method", request.Method,
				"url", request.URL,
				"request_id", request.Header.Get("X-Request-ID"),
				"duration", m.Duration,
				"status", m.Code,
			)
		})
	})

	r.Methods(http.MethodGet).Path(inbox.MessagesPath).HandlerFunc(s.list)
	r.Methods(http.MethodPatch).Path(inbox.MessagesPath).HandlerFunc(s.patch)
	r.Methods(http.MethodPost).Path(inbox.MessagesPath).HandlerFunc(s.create)
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server listen failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) list(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	messages := s.snapshot()
	s.mu.Unlock()
	s.writeJSON(writer, http.StatusOK, messages)
}

func (s *Server) patch(writer http.ResponseWriter, request *http.Request) {
	var req model.PatchRequest
	if err := decode(request, &req); err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.apply(req)
	s.mu.Unlock()

	writer.WriteHeader(http.StatusOK)
}

func (s *Server) create(writer http.ResponseWriter, request *http.Request) {
	var draft model.Draft
	if err := decode(request, &draft); err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	next := 1
	for _, m := range s.messages {
		if m.ID >= next {
			next = m.ID + 1
		}
	}
	created := model.Message{
		ID:      next,
		Subject: draft.Subject,
		Body:    draft.Body,
		Labels:  []string{},
	}
	s.messages = append(s.messages, created)
	s.mu.Unlock()

	s.writeJSON(writer, http.StatusCreated, created)
}

// apply mutates the mailbox. Unknown ids are ignored. Caller holds mu.
func (s *Server) apply(req model.PatchRequest) {
	targets := make(map[int]bool, len(req.MessageIDs))
	for _, id := range req.MessageIDs {
		targets[id] = true
	}

	if req.Command == model.CommandDelete {
		kept := s.messages[:0]
		for _, m := range s.messages {
			if !targets[m.ID] {
				kept = append(kept, m)
			}
		}
		s.messages = kept
		return
	}

	for i, m := range s.messages {
		if !targets[m.ID] {
			continue
		}
		switch req.Command {
		case model.CommandStar:
			m.Starred = !m.Starred
		case model.CommandRead:
			m.Read = *req.Read
		case model.CommandAddLabel:
			m = m.WithLabel(*req.Label)
		case model.CommandRemoveLabel:
			m = m.WithoutLabel(*req.Label)
		}
		s.messages[i] = m
	}
}

// snapshot deep-copies the mailbox. Caller holds mu.
func (s *Server) snapshot() []model.Message {
	out := make([]model.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

func decode(request *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

func (s *Server) writeJSON(writer http.ResponseWriter, status int, v any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		s.logger.Error("failed to write response", "err", err)
	}
}

func (s *Server) writeError(writer http.ResponseWriter, status int, err error) {
	s.writeJSON(writer, status, inbox.ErrorResponse{Error: err.Error()})
}
