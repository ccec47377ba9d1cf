package inbox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source"
)

var _ source.MessageSource = (*Client)(nil)

// FetchAll retrieves every message via GET /api/messages.
func (c *Client) FetchAll(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := c.do(ctx, http.MethodGet, MessagesPath, nil, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		// A literal null body is not a message list.
		return nil, &source.ParseError{
			Method: http.MethodGet,
			Path:   MessagesPath,
			Err:    fmt.Errorf("expected a JSON array of messages"),
		}
	}
	return messages, nil
}

// Patch sends a batch command via PATCH /api/messages.
func (c *Client) Patch(ctx context.Context, req model.PatchRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid %s request: %w", req.Command, err)
	}
	return c.do(ctx, http.MethodPatch, MessagesPath, req, nil)
}

// Create posts a new message and returns the server's copy of it.
func (c *Client) Create(ctx context.Context, draft model.Draft) (model.Message, error) {
	var created *model.Message
	if err := c.do(ctx, http.MethodPost, MessagesPath, draft, &created); err != nil {
		return model.Message{}, err
	}
	if created == nil {
		return model.Message{}, &source.ParseError{
			Method: http.MethodPost,
			Path:   MessagesPath,
			Err:    fmt.Errorf("expected a JSON message object"),
		}
	}
	return *created, nil
}
